package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueProposition_NarrativeFields(t *testing.T) {
	vpr := &ValueProposition{
		ExecutiveSummary: "Summary text",
		EvidenceMatrix: []EvidenceItem{
			{Claim: "Leads teams", Evidence: "Led a team of five at Acme"},
			{Claim: "Ships fast", Evidence: "Shipped weekly releases"},
		},
		Differentiators: []string{"Deep domain knowledge"},
		TalkingPoints:   []string{"Ask about platform migration"},
	}

	fields := vpr.NarrativeFields()
	require.Len(t, fields, 5)

	assert.Equal(t, "executive_summary", fields[0].Path)
	assert.Equal(t, "Summary text", fields[0].Text)
	assert.Equal(t, "evidence_matrix[0].evidence", fields[1].Path)
	assert.Equal(t, "evidence_matrix[1].evidence", fields[2].Path)
	assert.Equal(t, "differentiators[0]", fields[3].Path)
	assert.Equal(t, "talking_points[0]", fields[4].Path)
}

func TestValueProposition_NarrativeFieldsEmpty(t *testing.T) {
	vpr := &ValueProposition{}
	fields := vpr.NarrativeFields()
	// Executive summary is always included, even when empty.
	require.Len(t, fields, 1)
	assert.Equal(t, "executive_summary", fields[0].Path)
}

func TestFactBaseline_HasSkill(t *testing.T) {
	baseline := &FactBaseline{
		VerifiableSkills: map[string]struct{}{"python": {}, "aws": {}},
	}
	assert.True(t, baseline.HasSkill("python"))
	assert.False(t, baseline.HasSkill("rust"))
}
