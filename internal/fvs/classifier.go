package fvs

import (
	"fmt"

	"github.com/jonathan/career-docs/internal/types"
)

// ClassifyImmutableMismatch turns a mismatch on an immutable field (contact
// identifier, company, role, date range, institution, degree) into a critical
// violation. Immutable facts must never be altered by generation.
func ClassifyImmutableMismatch(field, expected, actual string) types.Violation {
	return types.Violation{
		Field:    field,
		Severity: types.SeverityCritical,
		Expected: &expected,
		Actual:   &actual,
	}
}

// ClassifySkill checks a candidate skill against the baseline's verifiable
// skill set. Skills are verifiable-tier facts: an untraceable skill is a
// warning, never critical, and a traceable one is no violation at all.
func ClassifySkill(field, candidateSkill string, baseline *types.FactBaseline) *types.Violation {
	if baseline.HasSkill(Normalize(candidateSkill)) {
		return nil
	}
	actual := candidateSkill
	return &types.Violation{
		Field:    field,
		Severity: types.SeverityWarning,
		Actual:   &actual,
		Detail:   "skill is not traceable to the source CV",
	}
}

// ClassifyFabricatedEntity turns an entity with no corresponding baseline entry
// at all (as opposed to a mismatch on an existing entry) into a critical
// violation. Expected is left nil to distinguish the two cases.
func ClassifyFabricatedEntity(kind, field, actual string) types.Violation {
	a := actual
	return types.Violation{
		Field:    field,
		Severity: types.SeverityCritical,
		Actual:   &a,
		Detail:   fmt.Sprintf("%s has no corresponding entry in the source CV", kind),
	}
}

// ClassifyAmbiguousMatch records an ambiguous company/role tie as an
// informational note. Ambiguity is resolved conservatively by the matcher and
// never blocks a document on its own.
func ClassifyAmbiguousMatch(field, detail string) types.Violation {
	return types.Violation{
		Field:    field,
		Severity: types.SeverityInfo,
		Detail:   detail,
	}
}
