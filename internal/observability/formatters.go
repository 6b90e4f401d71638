// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/career-docs/internal/types"
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

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintBaseline outputs a human-readable summary of an extracted fact baseline.
func (p *Printer) PrintBaseline(baseline *types.FactBaseline) {
	if baseline == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", baseline.FullName))
	if baseline.Contact.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", baseline.Contact.Email))
	}
	sb.WriteString("\n")

	if len(baseline.WorkHistory) > 0 {
		sb.WriteString("Work History:\n")
		for _, entry := range baseline.WorkHistory {
			sb.WriteString(fmt.Sprintf("  • %s — %s (%s)\n", entry.Company, entry.Role, entry.DateRange))
		}
		sb.WriteString("\n")
	}

	if len(baseline.Education) > 0 {
		sb.WriteString("Education:\n")
		for _, entry := range baseline.Education {
			sb.WriteString(fmt.Sprintf("  • %s, %s\n", entry.Degree, entry.Institution))
		}
		sb.WriteString("\n")
	}

	if len(baseline.VerifiableSkills) > 0 {
		skills := make([]string, 0, len(baseline.VerifiableSkills))
		for skill := range baseline.VerifiableSkills {
			skills = append(skills, skill)
		}
		sort.Strings(skills)

		count := min(len(skills), maxItemsToShow)
		sb.WriteString(fmt.Sprintf("Verifiable skills (%d):\n", len(skills)))
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", skills[i]))
		}
		if len(skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
		}
	}

	p.printBox("FACT BASELINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidationResult outputs a verdict summary with its violations grouped
// by severity.
func (p *Printer) PrintValidationResult(result *types.ValidationResult, code types.Code) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Code:     %s\n", code))

	if len(result.Violations) == 0 {
		sb.WriteString("No violations.")
		p.printBox("VALIDATION RESULT", sb.String())
		return
	}

	counts := map[types.Severity]int{}
	for _, v := range result.Violations {
		counts[v.Severity]++
	}
	sb.WriteString(fmt.Sprintf("Critical: %d   Warning: %d   Info: %d\n\n",
		counts[types.SeverityCritical], counts[types.SeverityWarning], counts[types.SeverityInfo]))

	for _, severity := range []types.Severity{types.SeverityCritical, types.SeverityWarning, types.SeverityInfo} {
		for _, v := range result.Violations {
			if v.Severity != severity {
				continue
			}
			sb.WriteString(fmt.Sprintf("[%s] %s\n", severity, v.Field))
			if v.Expected != nil && v.Actual != nil {
				sb.WriteString(fmt.Sprintf("  expected: %s\n", *v.Expected))
				sb.WriteString(fmt.Sprintf("  actual:   %s\n", *v.Actual))
			} else if v.Actual != nil {
				sb.WriteString(fmt.Sprintf("  actual:   %s\n", *v.Actual))
			}
			if v.Detail != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", v.Detail))
			}
		}
	}

	p.printBox("VALIDATION RESULT", strings.TrimSuffix(sb.String(), "\n"))
}
