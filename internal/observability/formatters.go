// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/shaheer/resume-optimizer/internal/types"
	"github.com/shaheer/resume-optimizer/internal/validation"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
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
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResult outputs a human-readable summary of an optimization result.
func (p *Printer) PrintResult(result *types.OptimizationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	doc := result.OptimizedContent

	sb.WriteString(fmt.Sprintf("Name:        %s\n", doc.FullName))
	sb.WriteString(fmt.Sprintf("Match score: %d/100\n", result.MatchScore))
	sb.WriteString(fmt.Sprintf("Roles:       %d\n", len(doc.Experience)))
	sb.WriteString(fmt.Sprintf("Projects:    %d\n", len(doc.Projects)))
	sb.WriteString(fmt.Sprintf("Skills:      %d\n", len(doc.Skills)))
	sb.WriteString(fmt.Sprintf("Est. lines:  %d\n", estimateFromDocument(doc)))

	if len(result.Analysis) > 0 {
		sb.WriteString("\nKey changes:\n")
		count := min(len(result.Analysis), maxItemsToShow)
		for i := 0; i < count; i++ {
			entry := result.Analysis[i]
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", entry.Section, entry.Change))
		}
		if len(result.Analysis) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Analysis)-maxItemsToShow))
		}
	}

	p.printBox("Optimization Result", sb.String())
}

// PrintDefects outputs the defects found during a validation pass.
func (p *Printer) PrintDefects(defects []validation.ValidationError) {
	if len(defects) == 0 {
		p.printBox("Validation", "No defects found")
		return
	}

	var sb strings.Builder
	for i, defect := range defects {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, defect.String()))
	}
	p.printBox(fmt.Sprintf("Validation (%d defect(s))", len(defects)), sb.String())
}

// estimateFromDocument reuses the pipeline estimator on a typed document by
// round-tripping it through the loose map form the estimator consumes.
func estimateFromDocument(doc types.ResumeDocument) int {
	content := map[string]any{
		"summary":        doc.Summary,
		"skills":         toAnySlice(len(doc.Skills)),
		"projects":       toAnySlice(len(doc.Projects)),
		"education":      toAnySlice(len(doc.Education)),
		"certifications": toAnySlice(len(doc.Certifications)),
	}
	experience := make([]any, 0, len(doc.Experience))
	for _, entry := range doc.Experience {
		experience = append(experience, map[string]any{
			"points": toAnySlice(len(entry.Points)),
		})
	}
	content["experience"] = experience
	return validation.EstimateLineCount(content)
}

func toAnySlice(n int) []any {
	return make([]any, n)
}
