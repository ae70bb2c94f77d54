package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mdabutalebdev/cv-maker/internal/observability"
	"github.com/mdabutalebdev/cv-maker/internal/review"
	"github.com/mdabutalebdev/cv-maker/internal/storage"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the saved form with a JSON document",
	Long: "Reads a form document, bare or wrapped in a snapshot envelope, and saves " +
		"it as the current form. Use - to read from stdin.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	state, version, err := storage.DecodeSnapshot(raw)
	if err != nil {
		return err
	}
	state.Normalize()

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.snapshots.Save(ctx, *state); err != nil {
		return err
	}
	a.logger.Info("form imported", "source", args[0], "version", version, "key", a.snapshots.Key())

	observability.NewPrinter(cmd.OutOrStdout()).PrintProjection(review.Project(*state))
	return nil
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
