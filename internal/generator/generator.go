// Package generator runs the document generation flows: prompt assembly, LLM
// calls, schema validation, and the fact-verification gate that decides whether
// a generated document is accepted.
package generator

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-docs/internal/llm"
	"github.com/jonathan/career-docs/internal/types"
)

// Generator drives tailored-CV and value-proposition generation against an LLM
// client. A document with CRITICAL violations is regenerated up to
// maxRegenerations times with violation feedback before being rejected.
type Generator struct {
	llm              llm.Client
	maxRegenerations int
	verbose          bool
}

// New creates a Generator. maxRegenerations below zero is treated as zero.
func New(client llm.Client, maxRegenerations int, verbose bool) *Generator {
	if maxRegenerations < 0 {
		maxRegenerations = 0
	}
	return &Generator{
		llm:              client,
		maxRegenerations: maxRegenerations,
		verbose:          verbose,
	}
}

// formatViolations renders violations as a bulleted list for regeneration
// feedback prompts.
func formatViolations(violations []types.Violation) string {
	var sb strings.Builder
	for _, v := range violations {
		fmt.Fprintf(&sb, "- %s: %s", v.Field, v.Detail)
		if v.Expected != nil && v.Actual != nil {
			fmt.Fprintf(&sb, " (expected %q, got %q)", *v.Expected, *v.Actual)
		} else if v.Actual != nil {
			fmt.Fprintf(&sb, " (got %q)", *v.Actual)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// criticalViolations filters a validation result down to its CRITICAL entries.
func criticalViolations(result *types.ValidationResult) []types.Violation {
	var criticals []types.Violation
	for _, v := range result.Violations {
		if v.Severity == types.SeverityCritical {
			criticals = append(criticals, v)
		}
	}
	return criticals
}
