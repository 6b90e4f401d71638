package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/career-docs/internal/types"
)

func TestPrintBaseline(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBaseline(&types.FactBaseline{
		FullName: "Jordan Reyes",
		Contact:  types.ContactInfo{Email: "jordan@example.com"},
		WorkHistory: []types.WorkEntry{
			{Company: "Acme Corp", Role: "Software Engineer", DateRange: "2020-2023"},
		},
		Education: []types.EducationEntry{
			{Institution: "State University", Degree: "BSc Computer Science"},
		},
		VerifiableSkills: map[string]struct{}{"python": {}, "aws": {}},
	})

	out := buf.String()
	assert.Contains(t, out, "FACT BASELINE")
	assert.Contains(t, out, "Jordan Reyes")
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "python")
}

func TestPrintBaseline_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintBaseline(nil)
	assert.Empty(t, buf.String())
}

func TestPrintValidationResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	expected := "Acme Corp"
	actual := "Acme Inc"
	p.PrintValidationResult(&types.ValidationResult{
		Violations: []types.Violation{
			{Field: "experience[0].company", Severity: types.SeverityCritical, Expected: &expected, Actual: &actual},
			{Field: "skills[2]", Severity: types.SeverityWarning, Detail: "skill is not traceable to the source CV"},
		},
	}, types.CodeHallucinationDetected)

	out := buf.String()
	assert.Contains(t, out, "FVS_HALLUCINATION_DETECTED")
	assert.Contains(t, out, "Critical: 1   Warning: 1   Info: 0")
	assert.Contains(t, out, "[critical] experience[0].company")
}

func TestPrintValidationResult_Clean(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintValidationResult(&types.ValidationResult{}, types.CodeSuccess)
	assert.Contains(t, buf.String(), "No violations.")
}
