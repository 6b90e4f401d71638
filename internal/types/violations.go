package types

import (
	"encoding/json"
	"fmt"
)

// Severity classifies how serious a fact violation is. Severities are ordered:
// SeverityInfo < SeverityWarning < SeverityCritical.
type Severity int

// Severity levels, from least to most serious.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// String returns the canonical name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalJSON encodes the severity as its string name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity from its string name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "critical":
		*s = SeverityCritical
	default:
		return fmt.Errorf("unknown severity: %q", name)
	}
	return nil
}

// Violation represents a single fact-verification failure. Expected is nil when
// the candidate asserted a fact with no corresponding baseline entry at all
// (a fabricated entity), as opposed to a mismatch on an existing entry.
type Violation struct {
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Expected *string  `json:"expected,omitempty"`
	Actual   *string  `json:"actual,omitempty"`
	Detail   string   `json:"detail,omitempty"`
}

// ValidationResult is the aggregate outcome of one fact-verification call.
type ValidationResult struct {
	Violations []Violation `json:"violations"`
}

// HasCriticalViolations reports whether any violation is critical.
// Callers treat a document with critical violations as rejected.
func (r *ValidationResult) HasCriticalViolations() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// IsValid reports structural validity: no violations of any severity.
// A document can be invalid here yet still acceptable (warnings only).
func (r *ValidationResult) IsValid() bool {
	return len(r.Violations) == 0
}

// WorstSeverity returns the highest severity present, and false if there are
// no violations at all.
func (r *ValidationResult) WorstSeverity() (Severity, bool) {
	if len(r.Violations) == 0 {
		return SeverityInfo, false
	}
	worst := r.Violations[0].Severity
	for _, v := range r.Violations[1:] {
		if v.Severity > worst {
			worst = v.Severity
		}
	}
	return worst, true
}
