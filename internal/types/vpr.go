package types

import "fmt"

// EvidenceItem pairs a claim about the candidate with the evidence text backing it.
// The evidence text is narrative prose and is scanned for fabricated company and
// role mentions rather than compared field-by-field.
type EvidenceItem struct {
	Claim    string `json:"claim"`
	Evidence string `json:"evidence"`
}

// ValueProposition is a Value Proposition Report (VPR): a narrative document
// positioning the candidate against a target company. All of its fields are
// free text produced by the LLM.
type ValueProposition struct {
	Company          string         `json:"company"`
	RoleTitle        string         `json:"role_title"`
	ExecutiveSummary string         `json:"executive_summary"`
	EvidenceMatrix   []EvidenceItem `json:"evidence_matrix"`
	Differentiators  []string       `json:"differentiators"`
	TalkingPoints    []string       `json:"talking_points"`
}

// NarrativeField is a single free-text field with its path identifier.
type NarrativeField struct {
	Path string
	Text string
}

// NarrativeFields returns every free-text field of the VPR that must be scanned
// for fact fabrication, paired with a path-like field identifier.
func (v *ValueProposition) NarrativeFields() []NarrativeField {
	fields := []NarrativeField{
		{Path: "executive_summary", Text: v.ExecutiveSummary},
	}
	for i, item := range v.EvidenceMatrix {
		fields = append(fields, NarrativeField{
			Path: fmt.Sprintf("evidence_matrix[%d].evidence", i),
			Text: item.Evidence,
		})
	}
	for i, d := range v.Differentiators {
		fields = append(fields, NarrativeField{Path: fmt.Sprintf("differentiators[%d]", i), Text: d})
	}
	for i, tp := range v.TalkingPoints {
		fields = append(fields, NarrativeField{Path: fmt.Sprintf("talking_points[%d]", i), Text: tp})
	}
	return fields
}

// GapQuestion is a gap-analysis question generated when the job posting asks for
// something the baseline cannot verify.
type GapQuestion struct {
	Skill    string `json:"skill"`
	Question string `json:"question"`
	Context  string `json:"context,omitempty"`
}
