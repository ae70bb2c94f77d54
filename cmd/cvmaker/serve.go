package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mdabutalebdev/cv-maker/internal/server"
	"github.com/mdabutalebdev/cv-maker/internal/steps"
	"github.com/mdabutalebdev/cv-maker/internal/wizard"
	"github.com/spf13/cobra"
)

var (
	servePort int
	serveStep string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the wizard HTTP API server",
	Long:  `Start an HTTP server that exposes the resume wizard: form edits, step navigation, generation progress, review and export.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveStep, "step", "", "Step 1-7 the wizard opens on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	var opts wizard.Options
	if serveStep != "" {
		def, err := steps.Default().Resolve(serveStep)
		if err != nil {
			return err
		}
		opts.Start = def.Step
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.session(context.WithoutCancel(ctx), opts)
	if err != nil {
		return err
	}

	port := a.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	srv := server.New(session, server.Config{
		Port:         port,
		CORSOrigins:  a.cfg.CORSOrigins,
		ExportFormat: a.cfg.ExportFormat,
	}, a.logger)
	return srv.Run(ctx)
}
