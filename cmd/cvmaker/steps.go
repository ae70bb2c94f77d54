package main

import (
	"fmt"

	"github.com/mdabutalebdev/cv-maker/internal/observability"
	"github.com/mdabutalebdev/cv-maker/internal/steps"
	"github.com/spf13/cobra"
)

var stepsCmd = &cobra.Command{
	Use:   "steps [step]",
	Short: "List the wizard steps or describe one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSteps,
}

func init() {
	rootCmd.AddCommand(stepsCmd)
}

func runSteps(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	registry := steps.Default()
	printer := observability.NewPrinter(cmd.OutOrStdout())
	if len(args) == 0 {
		printer.PrintSteps(registry.All(), catalog, cfg.StartAt())
		return nil
	}

	def, err := registry.Resolve(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Step %d: %s\n", int(def.Step), def.Name(catalog))
	fmt.Fprintf(out, "Component: %s\n", def.Component)
	for _, section := range def.Sections {
		fmt.Fprintf(out, "Section: %s\n", section)
	}
	for _, tab := range def.Tabs {
		fmt.Fprintf(out, "Tab: %s (%s)\n", catalog.Text(tab.LabelID, nil), tab.Section)
	}
	if def.Step == steps.Review {
		fmt.Fprintf(out, "Job search: %s\n", cfg.JobSearchURL)
	}
	return nil
}
