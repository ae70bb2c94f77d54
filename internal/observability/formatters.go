// Package observability provides structured logging setup and formatted
// output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mdabutalebdev/cv-maker/internal/labels"
	"github.com/mdabutalebdev/cv-maker/internal/progress"
	"github.com/mdabutalebdev/cv-maker/internal/review"
	"github.com/mdabutalebdev/cv-maker/internal/steps"
	"github.com/mdabutalebdev/cv-maker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the number of cells in a progress bar
	barWidth = 40
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, row := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, row)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap splits s into rows of at most width runes, breaking at spaces where
// possible. Words longer than a row are split.
func wrap(s string, width int) []string {
	if len([]rune(s)) <= width {
		return []string{s}
	}

	var rows []string
	var row []rune
	for _, word := range strings.Split(s, " ") {
		w := []rune(word)
		if len(row) > 0 && len(row)+1+len(w) <= width {
			row = append(append(row, ' '), w...)
			continue
		}
		if len(row) > 0 {
			rows = append(rows, string(row))
			row = nil
		}
		for len(w) > width {
			rows = append(rows, string(w[:width]))
			w = w[width:]
		}
		row = w
	}
	return append(rows, string(row))
}

// PrintSteps outputs the wizard steps, marking the current one.
func (p *Printer) PrintSteps(defs []steps.Definition, catalog *labels.Catalog, current steps.Step) {
	var sb strings.Builder
	for _, d := range defs {
		marker := " "
		if d.Step == current {
			marker = "▶"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s\n", marker, int(d.Step), d.Name(catalog)))
		for _, tab := range d.Tabs {
			sb.WriteString(fmt.Sprintf("       • %s\n", catalog.Text(tab.LabelID, nil)))
		}
	}
	p.printBox("WIZARD STEPS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProjection outputs a summary of the review document.
func (p *Printer) PrintProjection(proj review.Projection) {
	var sb strings.Builder
	name := proj.FullName
	if name == "" {
		name = "(no name)"
	}
	sb.WriteString(fmt.Sprintf("Name:     %s\n", name))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", proj.JobTitle))
	sb.WriteString("\n")

	headings := proj.Headings()
	if len(headings) == 0 {
		sb.WriteString("No sections filled in yet")
	} else {
		sb.WriteString("Sections:\n")
		for _, h := range headings {
			sb.WriteString(fmt.Sprintf("  • %s\n", h))
		}
	}

	if len(proj.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		count := min(len(proj.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			group := proj.Skills[i]
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", group.Category, strings.Join(group.Items, ", ")))
		}
		if len(proj.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(proj.Skills)-maxItemsToShow))
		}
	}

	p.printBox("RESUME PREVIEW", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLint outputs review-time warnings.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintLint(issues []types.LintIssue) {
	if len(issues) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO ISSUES FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d issues:\n\n", len(issues)))
	for i, issue := range issues {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", issue.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", issue.Message))
		if i < len(issues)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("REVIEW WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress redraws a single-line progress bar. Call PrintProgressDone
// once the animation has finished.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(state progress.State) {
	filled := int(state.Progress / 100 * barWidth)
	filled = max(0, min(barWidth, filled))
	fmt.Fprintf(p.out, "\r[%s%s] %3.0f%%", strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled), state.Progress)
}

// PrintProgressDone terminates the progress line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgressDone(message string) {
	fmt.Fprintf(p.out, "\r%-*s\r%s\n", barWidth+7, "", message)
}

// PrintExport outputs the result of an export.
func (p *Printer) PrintExport(path string, size int, notice string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:     %s\n", filepath.Base(path)))
	sb.WriteString(fmt.Sprintf("Size:     %d bytes", size))
	if notice != "" {
		sb.WriteString("\n\n⚠ ")
		sb.WriteString(notice)
	}
	p.printBox("EXPORT", sb.String())
	fmt.Fprintf(p.out, "Saved to %s\n", path) //nolint:errcheck
}
