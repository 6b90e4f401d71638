package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/jonathan/career-docs/internal/fvs"
	"github.com/jonathan/career-docs/internal/llm"
	"github.com/jonathan/career-docs/internal/prompts"
	"github.com/jonathan/career-docs/internal/schemas"
	"github.com/jonathan/career-docs/internal/types"
)

// VPRInput gathers everything the value-proposition flow needs beyond the CV.
type VPRInput struct {
	Company        string
	RoleTitle      string
	JobPosting     string
	CompanyContext string
	// GapAnswers maps a gap-question skill to the candidate's answer.
	GapAnswers map[string]string
}

// VPROutcome carries a generated value proposition together with its
// fact-verification result.
type VPROutcome struct {
	Document   *types.ValueProposition `json:"document"`
	Validation *types.ValidationResult `json:"validation"`
	Attempts   int                     `json:"attempts"`
}

// GenerateGapQuestions asks the LLM which job requirements the CV does not
// clearly demonstrate, returning questions for the candidate to answer before
// the value proposition is drafted.
func (g *Generator) GenerateGapQuestions(ctx context.Context, sourceCV *types.SourceCV, jobPosting string) types.Result[[]types.GapQuestion] {
	if _, err := fvs.ExtractBaseline(sourceCV); err != nil {
		return types.Fail[[]types.GapQuestion](types.CodeInternalError, fmt.Sprintf("failed to extract fact baseline: %v", err))
	}

	cvJSON, err := json.MarshalIndent(sourceCV, "", "  ")
	if err != nil {
		return types.Fail[[]types.GapQuestion](types.CodeInternalError, fmt.Sprintf("failed to encode source CV: %v", err))
	}

	llm.LogInjectionWarning(llm.CheckInjectionHeuristics(jobPosting), "job posting")

	template, err := prompts.Get("vpr.json", "gap-questions")
	if err != nil {
		return types.Fail[[]types.GapQuestion](types.CodeInternalError, err.Error())
	}
	prompt := prompts.Format(template, map[string]string{
		"SourceCV":   string(cvJSON),
		"JobPosting": llm.QuoteExternalContent(jobPosting, "job posting"),
	})

	raw, err := g.llm.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return types.Fail[[]types.GapQuestion](types.CodeInternalError, fmt.Sprintf("gap question generation failed: %v", err))
	}

	var parsed struct {
		Questions []types.GapQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return types.Fail[[]types.GapQuestion](types.CodeValidationError, fmt.Sprintf("malformed gap question output: %v", err))
	}
	return types.Ok(parsed.Questions)
}

// GenerateVPR drafts a value proposition for the target company and gates it
// through narrative fact verification. A report that references employers or
// roles absent from the CV is regenerated with feedback; if every attempt
// fails, the result is a rejection carrying the last outcome.
func (g *Generator) GenerateVPR(ctx context.Context, sourceCV *types.SourceCV, input VPRInput) types.Result[*VPROutcome] {
	if input.Company == "" || input.RoleTitle == "" {
		return types.Fail[*VPROutcome](types.CodeValidationError, "company and role title are required")
	}

	cvJSON, err := json.MarshalIndent(sourceCV, "", "  ")
	if err != nil {
		return types.Fail[*VPROutcome](types.CodeInternalError, fmt.Sprintf("failed to encode source CV: %v", err))
	}

	llm.LogInjectionWarning(llm.CheckInjectionHeuristics(input.JobPosting), "job posting")
	llm.LogInjectionWarning(llm.CheckInjectionHeuristics(input.CompanyContext), "company research")

	data := map[string]string{
		"Company":        input.Company,
		"RoleTitle":      input.RoleTitle,
		"SourceCV":       string(cvJSON),
		"JobPosting":     llm.QuoteExternalContent(input.JobPosting, "job posting"),
		"CompanyContext": llm.QuoteExternalContent(input.CompanyContext, "company research"),
		"GapAnswers":     formatGapAnswers(input.GapAnswers),
	}

	template, err := prompts.Get("vpr.json", "generate-vpr")
	if err != nil {
		return types.Fail[*VPROutcome](types.CodeInternalError, err.Error())
	}
	prompt := prompts.Format(template, data)

	var last *VPROutcome
	for attempt := 0; attempt <= g.maxRegenerations; attempt++ {
		raw, err := g.llm.GenerateJSON(ctx, prompt, llm.TierAdvanced)
		if err != nil {
			return types.Fail[*VPROutcome](types.CodeInternalError, fmt.Sprintf("document generation failed: %v", err))
		}

		vpr, err := parseVPR(raw)
		if err != nil {
			if attempt < g.maxRegenerations {
				if g.verbose {
					log.Printf("[GENERATOR] Attempt %d produced malformed output, regenerating: %v", attempt+1, err)
				}
				continue
			}
			return types.Fail[*VPROutcome](types.CodeValidationError, fmt.Sprintf("generated report is malformed: %v", err))
		}

		res := fvs.ValidateVPRAgainstCV(vpr, sourceCV)
		if res.Code == types.CodeInternalError {
			return types.Fail[*VPROutcome](res.Code, res.Error)
		}

		outcome := &VPROutcome{Document: vpr, Validation: res.Data, Attempts: attempt + 1}
		if res.Success {
			return types.Ok(outcome)
		}

		last = outcome
		if attempt < g.maxRegenerations {
			if g.verbose {
				log.Printf("[GENERATOR] Attempt %d failed fact verification, regenerating", attempt+1)
			}
			data["Violations"] = formatViolations(criticalViolations(res.Data))
			prompt = prompts.Format(prompts.MustGet("vpr.json", "regenerate-vpr"), data)
		}
	}

	return types.FailWithData(types.CodeHallucinationDetected, "generated report failed fact verification", last)
}

// parseVPR validates raw LLM output against the VPR schema and decodes it.
func parseVPR(raw string) (*types.ValueProposition, error) {
	if err := schemas.Validate(schemas.VPR, []byte(raw)); err != nil {
		return nil, err
	}
	var vpr types.ValueProposition
	if err := json.Unmarshal([]byte(raw), &vpr); err != nil {
		return nil, fmt.Errorf("failed to decode value proposition: %w", err)
	}
	return &vpr, nil
}

func formatGapAnswers(answers map[string]string) string {
	if len(answers) == 0 {
		return "(none provided)"
	}
	skills := make([]string, 0, len(answers))
	for skill := range answers {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	var lines []string
	for _, skill := range skills {
		lines = append(lines, fmt.Sprintf("- %s: %s", skill, answers[skill]))
	}
	return strings.Join(lines, "\n")
}
