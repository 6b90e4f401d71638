// Package types provides type definitions for structured data used throughout the career-docs system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ContactInfo holds the candidate's contact identifiers.
// All fields are immutable facts: generated documents may omit them but never change them.
type ContactInfo struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Location string `json:"location,omitempty"`
}

// WorkEntry represents a single work-history position.
type WorkEntry struct {
	Company   string `json:"company"`
	Role      string `json:"role"`
	DateRange string `json:"date_range"`
}

// EducationEntry represents a single education record.
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
}

// Achievement represents a quantified accomplishment tied to a skill.
// Achievements tagged verifiable contribute their skill to the baseline skill set.
type Achievement struct {
	Text       string `json:"text"`
	Skill      string `json:"skill,omitempty"`
	Verifiable bool   `json:"verifiable"`
}

// SourceCV is the user's verified source CV. It is the single source of truth
// for fact verification: every fact asserted by a generated document must be
// traceable to a SourceCV.
type SourceCV struct {
	FullName     string           `json:"full_name"`
	Contact      ContactInfo      `json:"contact"`
	WorkHistory  []WorkEntry      `json:"work_history"`
	Education    []EducationEntry `json:"education"`
	Skills       []string         `json:"skills"`
	Achievements []Achievement    `json:"achievements,omitempty"`
	Summary      string           `json:"summary,omitempty"`
}

// TailoredCV is an LLM-generated CV tailored to a job posting. It has the same
// shape as a source CV and is compared field-for-field against the fact baseline.
type TailoredCV struct {
	FullName    string           `json:"full_name"`
	Contact     ContactInfo      `json:"contact"`
	WorkHistory []WorkEntry      `json:"work_history"`
	Education   []EducationEntry `json:"education"`
	Skills      []string         `json:"skills"`
	Summary     string           `json:"summary,omitempty"`
}

// FactBaseline is the immutable ground-truth fact set extracted from a source CV.
// It is only ever read after construction; validation never mutates it.
type FactBaseline struct {
	FullName         string
	Contact          ContactInfo
	WorkHistory      []WorkEntry
	Education        []EducationEntry
	VerifiableSkills map[string]struct{}
}

// HasSkill reports whether the given already-normalized skill key is in the
// verifiable skill set.
func (b *FactBaseline) HasSkill(normalizedSkill string) bool {
	_, ok := b.VerifiableSkills[normalizedSkill]
	return ok
}
