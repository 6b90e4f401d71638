package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidSourceCV(t *testing.T) {
	payload := []byte(`{
		"full_name": "Jordan Reyes",
		"contact": {"email": "jordan@example.com"},
		"work_history": [
			{"company": "Acme", "role": "Engineer", "date_range": "2020-2023"}
		],
		"education": [
			{"institution": "State University", "degree": "BSc Computer Science"}
		],
		"skills": ["Python", "AWS"]
	}`)

	err := Validate(SourceCV, payload)
	assert.NoError(t, err)
}

func TestValidate_MissingRequiredField(t *testing.T) {
	payload := []byte(`{
		"work_history": [],
		"skills": []
	}`)

	err := Validate(SourceCV, payload)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Greater(t, len(ve.Errors), 0)
}

func TestValidate_WrongType(t *testing.T) {
	payload := []byte(`{
		"full_name": "Jordan Reyes",
		"work_history": "not an array",
		"skills": []
	}`)

	err := Validate(SourceCV, payload)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate(SourceCV, []byte(`{not json`))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestValidate_ValidVPR(t *testing.T) {
	payload := []byte(`{
		"company": "Initech",
		"role_title": "Platform Lead",
		"executive_summary": "Summary",
		"evidence_matrix": [
			{"claim": "Scales systems", "evidence": "Scaled services at Acme"}
		],
		"differentiators": ["Domain depth"],
		"talking_points": ["Migration story"]
	}`)

	err := Validate(VPR, payload)
	assert.NoError(t, err)
}

func TestValidate_TailoredCVAdditionalProperty(t *testing.T) {
	payload := []byte(`{
		"full_name": "Jordan Reyes",
		"work_history": [],
		"unexpected": true
	}`)

	err := Validate(TailoredCV, payload)
	require.Error(t, err)
}
