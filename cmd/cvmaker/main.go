// Package main provides the cvmaker command: the resume wizard HTTP server
// and offline tools for the saved form document.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cvmaker",
	Short: "Resume builder wizard",
	Long: "cvmaker serves a step-by-step resume builder over HTTP and exports the " +
		"finished resume as PDF, PNG, HTML, LaTeX or plain text.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or TOML config file (default $CVMAKER_CONFIG)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
