package generator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-docs/internal/llm"
	"github.com/jonathan/career-docs/internal/types"
)

// fakeClient returns scripted responses in order, recording each prompt.
type fakeClient struct {
	responses []string
	err       error
	prompts   []string
	calls     int
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.responses) {
		return "", errors.New("no scripted response left")
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func (f *fakeClient) Close() error { return nil }

func sampleSourceCV() *types.SourceCV {
	return &types.SourceCV{
		FullName: "Jordan Reyes",
		Contact: types.ContactInfo{
			Phone:    "+1 555 0100",
			Email:    "jordan@example.com",
			Location: "Portland, OR",
		},
		WorkHistory: []types.WorkEntry{
			{Company: "Acme Corp", Role: "Software Engineer", DateRange: "2020-2023"},
			{Company: "Globex", Role: "Senior Engineer", DateRange: "2023 - Present"},
		},
		Education: []types.EducationEntry{
			{Institution: "State University", Degree: "BSc Computer Science"},
		},
		Skills: []string{"Python", "AWS"},
	}
}

func marshalDoc(t *testing.T, doc any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(data)
}

func faithfulTailoredCV() *types.TailoredCV {
	return &types.TailoredCV{
		FullName: "Jordan Reyes",
		Contact: types.ContactInfo{
			Email: "jordan@example.com",
		},
		WorkHistory: []types.WorkEntry{
			{Company: "Acme Corp", Role: "Software Engineer", DateRange: "2020-2023"},
			{Company: "Globex", Role: "Senior Engineer", DateRange: "2023 - Present"},
		},
		Education: []types.EducationEntry{
			{Institution: "State University", Degree: "BSc Computer Science"},
		},
		Skills:  []string{"Python", "AWS"},
		Summary: "Engineer with cloud platform experience.",
	}
}

func TestTailorCV_AcceptsFaithfulDocument(t *testing.T) {
	client := &fakeClient{responses: []string{marshalDoc(t, faithfulTailoredCV())}}
	g := New(client, 1, false)

	res := g.TailorCV(context.Background(), sampleSourceCV(), "Platform engineer role at Initech.")
	require.True(t, res.Success)
	assert.Equal(t, types.CodeSuccess, res.Code)
	assert.Equal(t, 1, res.Data.Attempts)
	assert.Equal(t, "Jordan Reyes", res.Data.Document.FullName)
	assert.False(t, res.Data.Validation.HasCriticalViolations())
}

func TestTailorCV_RegeneratesOnCriticalViolation(t *testing.T) {
	fabricated := faithfulTailoredCV()
	fabricated.WorkHistory = append(fabricated.WorkHistory,
		types.WorkEntry{Company: "Initech", Role: "Director", DateRange: "2015-2019"})

	client := &fakeClient{responses: []string{
		marshalDoc(t, fabricated),
		marshalDoc(t, faithfulTailoredCV()),
	}}
	g := New(client, 1, false)

	res := g.TailorCV(context.Background(), sampleSourceCV(), "job posting")
	require.True(t, res.Success)
	assert.Equal(t, 2, res.Data.Attempts)

	// The second prompt carries violation feedback.
	require.Len(t, client.prompts, 2)
	assert.Contains(t, client.prompts[1], "Initech")
	assert.Contains(t, client.prompts[1], "could not be verified")
}

func TestTailorCV_RejectsPersistentFabrication(t *testing.T) {
	fabricated := faithfulTailoredCV()
	fabricated.WorkHistory[0].DateRange = "2018-2023"
	raw := marshalDoc(t, fabricated)

	client := &fakeClient{responses: []string{raw, raw}}
	g := New(client, 1, false)

	res := g.TailorCV(context.Background(), sampleSourceCV(), "job posting")
	require.False(t, res.Success)
	assert.Equal(t, types.CodeDateMismatch, res.Code)
	require.NotNil(t, res.Data)
	assert.Equal(t, 2, res.Data.Attempts)
	assert.True(t, res.Data.Validation.HasCriticalViolations())
}

func TestTailorCV_MalformedOutput(t *testing.T) {
	client := &fakeClient{responses: []string{`{"not": "a cv"}`}}
	g := New(client, 0, false)

	res := g.TailorCV(context.Background(), sampleSourceCV(), "job posting")
	require.False(t, res.Success)
	assert.Equal(t, types.CodeValidationError, res.Code)
}

func TestTailorCV_LLMError(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}
	g := New(client, 1, false)

	res := g.TailorCV(context.Background(), sampleSourceCV(), "job posting")
	require.False(t, res.Success)
	assert.Equal(t, types.CodeInternalError, res.Code)
	assert.Contains(t, res.Error, "quota exceeded")
}

func TestTailorCV_NilSourceCV(t *testing.T) {
	client := &fakeClient{}
	g := New(client, 0, false)

	res := g.TailorCV(context.Background(), nil, "job posting")
	require.False(t, res.Success)
	assert.Equal(t, types.CodeInternalError, res.Code)
	assert.Empty(t, client.prompts)
}

func faithfulVPR() *types.ValueProposition {
	return &types.ValueProposition{
		Company:          "Initech",
		RoleTitle:        "Platform Lead",
		ExecutiveSummary: "Jordan Reyes brings production platform experience from Acme Corp.",
		EvidenceMatrix: []types.EvidenceItem{
			{Claim: "Cloud migrations", Evidence: "Led AWS workloads as Senior Engineer."},
		},
		Differentiators: []string{"Hands-on AWS depth"},
		TalkingPoints:   []string{"Ask about platform reliability goals at Initech."},
	}
}

func TestGenerateVPR_AcceptsGroundedReport(t *testing.T) {
	client := &fakeClient{responses: []string{marshalDoc(t, faithfulVPR())}}
	g := New(client, 1, false)

	res := g.GenerateVPR(context.Background(), sampleSourceCV(), VPRInput{
		Company:    "Initech",
		RoleTitle:  "Platform Lead",
		JobPosting: "Platform Lead opening at Initech.",
		GapAnswers: map[string]string{"Kubernetes": "Ran EKS clusters in production."},
	})
	require.True(t, res.Success)
	assert.Equal(t, 1, res.Data.Attempts)

	// Gap answers are included in the prompt.
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Kubernetes: Ran EKS clusters")
}

func TestGenerateVPR_RejectsFabricatedEmployer(t *testing.T) {
	fabricated := faithfulVPR()
	fabricated.ExecutiveSummary = "Jordan drove growth at Fictional Startup before moving into platform work."
	raw := marshalDoc(t, fabricated)

	client := &fakeClient{responses: []string{raw, raw}}
	g := New(client, 1, false)

	res := g.GenerateVPR(context.Background(), sampleSourceCV(), VPRInput{
		Company:   "Initech",
		RoleTitle: "Platform Lead",
	})
	require.False(t, res.Success)
	assert.Equal(t, types.CodeHallucinationDetected, res.Code)
	require.NotNil(t, res.Data)
	assert.Equal(t, 2, res.Data.Attempts)
}

func TestGenerateVPR_TargetCompanyIsExempt(t *testing.T) {
	report := faithfulVPR()
	report.TalkingPoints = []string{"Excited to build at Initech as a Platform Lead."}

	client := &fakeClient{responses: []string{marshalDoc(t, report)}}
	g := New(client, 0, false)

	res := g.GenerateVPR(context.Background(), sampleSourceCV(), VPRInput{
		Company:   "Initech",
		RoleTitle: "Platform Lead",
	})
	require.True(t, res.Success)
}

func TestGenerateVPR_MissingTarget(t *testing.T) {
	g := New(&fakeClient{}, 0, false)
	res := g.GenerateVPR(context.Background(), sampleSourceCV(), VPRInput{})
	require.False(t, res.Success)
	assert.Equal(t, types.CodeValidationError, res.Code)
}

func TestGenerateGapQuestions(t *testing.T) {
	client := &fakeClient{responses: []string{
		`{"questions": [{"skill": "Kubernetes", "question": "Have you operated Kubernetes in production?", "context": "Posting requires k8s."}]}`,
	}}
	g := New(client, 0, false)

	res := g.GenerateGapQuestions(context.Background(), sampleSourceCV(), "Requires Kubernetes.")
	require.True(t, res.Success)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Kubernetes", res.Data[0].Skill)
}

func TestGenerateGapQuestions_MalformedOutput(t *testing.T) {
	client := &fakeClient{responses: []string{"not json"}}
	g := New(client, 0, false)

	res := g.GenerateGapQuestions(context.Background(), sampleSourceCV(), "posting")
	require.False(t, res.Success)
	assert.Equal(t, types.CodeValidationError, res.Code)
}
