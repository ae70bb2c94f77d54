package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/mdabutalebdev/cv-maker/internal/export"
	"github.com/mdabutalebdev/cv-maker/internal/observability"
	"github.com/mdabutalebdev/cv-maker/internal/progress"
	"github.com/mdabutalebdev/cv-maker/internal/steps"
	"github.com/mdabutalebdev/cv-maker/internal/wizard"
	"github.com/spf13/cobra"
)

var (
	generateExport string
	generateOut    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the generation step in the terminal",
	Long: "Starts on the generation step, plays the progress animation and lands on " +
		"the review step. With --export the resume is then written to disk.",
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateExport, "export", "", "Export format to write after generation (pdf, png, html, tex, txt)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", ".", "Output file or directory for --export")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.session(ctx, wizard.Options{Start: steps.Generation})
	if err != nil {
		return err
	}
	defer session.Close()

	events, unsubscribe := session.Animator.Subscribe()
	defer unsubscribe()

	reviewed := make(chan struct{})
	session.Controller.OnChange(func(_, to steps.Step) {
		if to == steps.Review {
			close(reviewed)
		}
	})

	printer := observability.NewPrinter(cmd.OutOrStdout())
	if _, err := session.Controller.Next(); err != nil {
		return err
	}

	for done := false; !done; {
		select {
		case <-ctx.Done():
			session.Controller.Back()
			return fmt.Errorf("generation interrupted: %w", ctx.Err())
		case ev := <-events:
			switch ev.Kind {
			case progress.EventArmed, progress.EventTick:
				printer.PrintProgress(ev.State)
			case progress.EventCancelled:
				return fmt.Errorf("generation cancelled")
			}
		case <-reviewed:
			printer.PrintProgress(progress.State{Running: true, Progress: 100})
			done = true
		}
	}

	view := session.View()
	printer.PrintProgressDone(fmt.Sprintf("Resume ready: %s", view.Title))

	if generateExport == "" {
		return nil
	}
	path, res, err := writeExport(ctx, session, export.Format(generateExport), generateOut)
	if err != nil {
		return err
	}
	printer.PrintExport(path, len(res.Data), res.Notice)
	return nil
}
