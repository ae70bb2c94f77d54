package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mdabutalebdev/cv-maker/internal/export"
	"github.com/mdabutalebdev/cv-maker/internal/observability"
	"github.com/mdabutalebdev/cv-maker/internal/wizard"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the saved resume to a file",
	Long: "Renders the saved form as pdf, png, html, tex or txt. If a pdf or png " +
		"cannot be rendered, a plain text resume is written instead.",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: pdf, png, html, tex or txt (default from config)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "Output file or directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
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

	format := exportFormat
	if format == "" {
		format = a.cfg.ExportFormat
	}
	path, res, err := writeExport(ctx, session, export.Format(format), exportOut)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintExport(path, len(res.Data), res.Notice)
	return nil
}

// writeExport renders the resume and writes it under out. An existing
// directory receives the generated filename.
func writeExport(ctx context.Context, session *wizard.Session, format export.Format, out string) (string, *export.Result, error) {
	res, err := session.Export(ctx, format)
	if err != nil {
		return "", nil, err
	}

	path := out
	if info, statErr := os.Stat(out); statErr == nil && info.IsDir() {
		path = filepath.Join(out, res.Filename)
	} else if res.Fallback {
		path = filepath.Join(filepath.Dir(out), res.Filename)
	}
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		return "", nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, res, nil
}
