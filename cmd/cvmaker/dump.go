package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var dumpFormOnly bool

// errNoSnapshot is returned when nothing has been saved under the key.
var errNoSnapshot = errors.New("no saved form")

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the saved form snapshot as JSON",
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpFormOnly, "form-only", false, "Print the form document without the snapshot envelope")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var out []byte
	if dumpFormOnly {
		state, err := a.snapshots.Load(ctx)
		if err != nil {
			return err
		}
		if state == nil {
			return fmt.Errorf("%w under %q", errNoSnapshot, a.snapshots.Key())
		}
		if out, err = json.MarshalIndent(state, "", "  "); err != nil {
			return fmt.Errorf("failed to marshal form: %w", err)
		}
	} else {
		raw, err := a.backend.Get(ctx, a.snapshots.Key())
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		if raw == nil {
			return fmt.Errorf("%w under %q", errNoSnapshot, a.snapshots.Key())
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("stored snapshot is not valid JSON: %w", err)
		}
		out = buf.Bytes()
	}

	out = append(out, '\n')
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
