package main

import (
	"fmt"

	"github.com/mdabutalebdev/cv-maker/internal/observability"
	"github.com/mdabutalebdev/cv-maker/internal/wizard"
	"github.com/spf13/cobra"
)

var reviewPlain bool

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Print the saved resume as the review step shows it",
	Long:  "Loads the saved form and prints the review projection followed by any field warnings.",
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewPlain, "plain", false, "Print the plain text resume only")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.session(ctx, wizard.Options{})
	if err != nil {
		return err
	}
	defer session.Close()

	if reviewPlain {
		_, err := fmt.Fprint(cmd.OutOrStdout(), session.Review().PlainText())
		return err
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintProjection(session.Review())
	printer.PrintLint(session.Lint())
	return nil
}
