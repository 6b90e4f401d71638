package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jonathan/career-docs/internal/fvs"
	"github.com/jonathan/career-docs/internal/llm"
	"github.com/jonathan/career-docs/internal/prompts"
	"github.com/jonathan/career-docs/internal/schemas"
	"github.com/jonathan/career-docs/internal/types"
)

// TailorOutcome carries a generated tailored CV together with its
// fact-verification result. It is present on rejections too, so callers can
// audit what was rejected and why.
type TailorOutcome struct {
	Document   *types.TailoredCV       `json:"document"`
	Validation *types.ValidationResult `json:"validation"`
	Attempts   int                     `json:"attempts"`
}

// TailorCV generates a CV tailored to the job posting and gates it through
// fact verification. CRITICAL violations trigger regeneration with violation
// feedback; if every attempt fails verification the result is a rejection
// carrying the last outcome.
func (g *Generator) TailorCV(ctx context.Context, sourceCV *types.SourceCV, jobPosting string) types.Result[*TailorOutcome] {
	baseline, err := fvs.ExtractBaseline(sourceCV)
	if err != nil {
		return types.Fail[*TailorOutcome](types.CodeInternalError, fmt.Sprintf("failed to extract fact baseline: %v", err))
	}

	cvJSON, err := json.MarshalIndent(sourceCV, "", "  ")
	if err != nil {
		return types.Fail[*TailorOutcome](types.CodeInternalError, fmt.Sprintf("failed to encode source CV: %v", err))
	}

	llm.LogInjectionWarning(llm.CheckInjectionHeuristics(jobPosting), "job posting")
	quotedPosting := llm.QuoteExternalContent(jobPosting, "job posting")

	template, err := prompts.Get("tailoring.json", "tailor-cv")
	if err != nil {
		return types.Fail[*TailorOutcome](types.CodeInternalError, err.Error())
	}
	prompt := prompts.Format(template, map[string]string{
		"SourceCV":   string(cvJSON),
		"JobPosting": quotedPosting,
	})

	var last *TailorOutcome
	for attempt := 0; attempt <= g.maxRegenerations; attempt++ {
		raw, err := g.llm.GenerateJSON(ctx, prompt, llm.TierStandard)
		if err != nil {
			return types.Fail[*TailorOutcome](types.CodeInternalError, fmt.Sprintf("document generation failed: %v", err))
		}

		candidate, err := parseTailoredCV(raw)
		if err != nil {
			if attempt < g.maxRegenerations {
				if g.verbose {
					log.Printf("[GENERATOR] Attempt %d produced malformed output, regenerating: %v", attempt+1, err)
				}
				continue
			}
			return types.Fail[*TailorOutcome](types.CodeValidationError, fmt.Sprintf("generated CV is malformed: %v", err))
		}

		res := fvs.ValidateCVAgainstBaseline(baseline, candidate)
		if !res.Success {
			return types.Fail[*TailorOutcome](res.Code, res.Error)
		}

		outcome := &TailorOutcome{Document: candidate, Validation: res.Data, Attempts: attempt + 1}
		if !res.Data.HasCriticalViolations() {
			return types.Ok(outcome)
		}

		last = outcome
		if attempt < g.maxRegenerations {
			if g.verbose {
				log.Printf("[GENERATOR] Attempt %d failed fact verification, regenerating", attempt+1)
			}
			prompt = regenerateCVPrompt(string(cvJSON), quotedPosting, res.Data)
		}
	}

	return types.FailWithData(fvs.ResultCodeFor(last.Validation), "generated CV failed fact verification", last)
}

// parseTailoredCV validates raw LLM output against the tailored CV schema and
// decodes it.
func parseTailoredCV(raw string) (*types.TailoredCV, error) {
	if err := schemas.Validate(schemas.TailoredCV, []byte(raw)); err != nil {
		return nil, err
	}
	var cv types.TailoredCV
	if err := json.Unmarshal([]byte(raw), &cv); err != nil {
		return nil, fmt.Errorf("failed to decode tailored CV: %w", err)
	}
	return &cv, nil
}

func regenerateCVPrompt(cvJSON, quotedPosting string, result *types.ValidationResult) string {
	return prompts.Format(prompts.MustGet("tailoring.json", "regenerate-cv"), map[string]string{
		"SourceCV":   cvJSON,
		"JobPosting": quotedPosting,
		"Violations": formatViolations(criticalViolations(result)),
	})
}
