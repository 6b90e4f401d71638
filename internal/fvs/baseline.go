package fvs

import (
	"strings"

	"github.com/jonathan/career-docs/internal/types"
)

// ExtractBaseline builds the immutable fact baseline from a verified source CV.
//
// Contact, work-history and education fields are copied verbatim so the
// baseline stays human-readable for audit; normalization happens at comparison
// time. The verifiable skill set is the one exception: it exists purely for
// membership checks, so it is keyed by normalized skill.
func ExtractBaseline(cv *types.SourceCV) (*types.FactBaseline, error) {
	if cv == nil {
		return nil, &MissingBaselineDataError{Field: "source CV"}
	}
	if strings.TrimSpace(cv.FullName) == "" {
		return nil, &MissingBaselineDataError{Field: "full_name"}
	}

	baseline := &types.FactBaseline{
		FullName:         cv.FullName,
		Contact:          cv.Contact,
		WorkHistory:      make([]types.WorkEntry, len(cv.WorkHistory)),
		Education:        make([]types.EducationEntry, len(cv.Education)),
		VerifiableSkills: make(map[string]struct{}, len(cv.Skills)),
	}
	copy(baseline.WorkHistory, cv.WorkHistory)
	copy(baseline.Education, cv.Education)

	for _, skill := range cv.Skills {
		if key := Normalize(skill); key != "" {
			baseline.VerifiableSkills[key] = struct{}{}
		}
	}
	for _, ach := range cv.Achievements {
		if !ach.Verifiable || ach.Skill == "" {
			continue
		}
		if key := Normalize(ach.Skill); key != "" {
			baseline.VerifiableSkills[key] = struct{}{}
		}
	}

	return baseline, nil
}
