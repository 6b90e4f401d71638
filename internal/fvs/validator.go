package fvs

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-docs/internal/types"
)

// ValidateCVAgainstBaseline runs full fact verification of a tailored CV
// against the baseline: immutable fields (identity, contact, work history,
// education) and the verifiable skill tier.
//
// The returned result is successful whenever validation executed, even if the
// document carries warning or critical violations; the decision to reject is
// the caller's, made by checking HasCriticalViolations on the data. Only a
// malformed baseline or candidate produces a failed result (INTERNAL_ERROR).
func ValidateCVAgainstBaseline(baseline *types.FactBaseline, candidate *types.TailoredCV) types.Result[*types.ValidationResult] {
	if baseline == nil || strings.TrimSpace(baseline.FullName) == "" {
		return types.Fail[*types.ValidationResult](types.CodeInternalError, "malformed fact baseline")
	}
	if candidate == nil {
		return types.Fail[*types.ValidationResult](types.CodeInternalError, "candidate document is nil")
	}

	result := &types.ValidationResult{}

	// Identity and contact identifiers. Omission is allowed; alteration is not.
	checkImmutable(result, "full_name", baseline.FullName, candidate.FullName, Normalize)
	checkImmutable(result, "contact.phone", baseline.Contact.Phone, candidate.Contact.Phone, Normalize)
	checkImmutable(result, "contact.email", baseline.Contact.Email, candidate.Contact.Email, Normalize)
	checkImmutable(result, "contact.location", baseline.Contact.Location, candidate.Contact.Location, Normalize)

	for i, entry := range candidate.WorkHistory {
		match := MatchWorkEntry(baseline.WorkHistory, entry, i)
		if match.Fabricated {
			field := fmt.Sprintf("experience[%d].company", i)
			result.Violations = append(result.Violations, ClassifyFabricatedEntity("company", field, entry.Company))
			continue
		}
		if match.Ambiguous {
			field := fmt.Sprintf("experience[%d]", i)
			detail := fmt.Sprintf("multiple baseline roles at %s; checked candidate against all of them", entry.Company)
			result.Violations = append(result.Violations, ClassifyAmbiguousMatch(field, detail))
		}
		for _, mm := range match.Mismatches {
			result.Violations = append(result.Violations, ClassifyImmutableMismatch(mm.Field, mm.Expected, mm.Actual))
		}
	}

	for i, entry := range candidate.Education {
		match := MatchEducationEntry(baseline.Education, entry, i)
		if match.Fabricated {
			field := fmt.Sprintf("education[%d].institution", i)
			result.Violations = append(result.Violations, ClassifyFabricatedEntity("institution", field, entry.Institution))
			continue
		}
		for _, mm := range match.Mismatches {
			result.Violations = append(result.Violations, ClassifyImmutableMismatch(mm.Field, mm.Expected, mm.Actual))
		}
	}

	for i, skill := range candidate.Skills {
		if v := ClassifySkill(fmt.Sprintf("skills[%d]", i), skill, baseline); v != nil {
			result.Violations = append(result.Violations, *v)
		}
	}

	return types.Ok(result)
}

// checkImmutable records a critical violation when the candidate supplies a
// non-empty value that differs from the baseline under the given normalizer.
// An empty candidate value is an omission, not an alteration.
func checkImmutable(result *types.ValidationResult, field, expected, actual string, normalizer func(string) string) {
	if strings.TrimSpace(actual) == "" {
		return
	}
	if strings.TrimSpace(expected) == "" {
		// Candidate asserts a contact fact the baseline never had.
		result.Violations = append(result.Violations, ClassifyFabricatedEntity("contact detail", field, actual))
		return
	}
	if normalizer(expected) != normalizer(actual) {
		result.Violations = append(result.Violations, ClassifyImmutableMismatch(field, expected, actual))
	}
}

// ValidateVPRAgainstCV extracts an ephemeral baseline from the source CV and
// scans every narrative field of the VPR for company and role mentions that
// are not traceable to it. The VPR's own target company and role are exempt.
//
// Unlike ValidateCVAgainstBaseline this folds the accept/reject decision into
// its return: its only caller always wants a hard gate, so any critical
// violation yields a failed result with FVS_HALLUCINATION_DETECTED.
func ValidateVPRAgainstCV(vpr *types.ValueProposition, sourceCV *types.SourceCV) types.Result[*types.ValidationResult] {
	if vpr == nil {
		return types.Fail[*types.ValidationResult](types.CodeInternalError, "VPR document is nil")
	}

	baseline, err := ExtractBaseline(sourceCV)
	if err != nil {
		return types.Fail[*types.ValidationResult](types.CodeInternalError, err.Error())
	}

	allowed := []string{vpr.Company, vpr.RoleTitle}

	result := &types.ValidationResult{}
	for _, field := range vpr.NarrativeFields() {
		for _, mention := range ScanNarrative(baseline, field.Text, allowed) {
			result.Violations = append(result.Violations, ClassifyFabricatedEntity(mention.Kind, field.Path, mention.Text))
		}
	}

	if result.HasCriticalViolations() {
		return types.FailWithData(types.CodeHallucinationDetected,
			"VPR references facts not present in source CV", result)
	}
	return types.Ok(result)
}

// ResultCodeFor maps a validation result to the most specific rejection code
// for the handler layer: SUCCESS when there are no critical violations,
// FVS_DATE_MISMATCH or FVS_ROLE_MISMATCH when every critical violation is of
// that single class, and FVS_HALLUCINATION_DETECTED otherwise (fabricated
// entities or mixed classes).
func ResultCodeFor(result *types.ValidationResult) types.Code {
	if result == nil || !result.HasCriticalViolations() {
		return types.CodeSuccess
	}

	allDates, allRoles := true, true
	for _, v := range result.Violations {
		if v.Severity != types.SeverityCritical {
			continue
		}
		if v.Expected == nil {
			// Fabricated entity: always a hallucination.
			return types.CodeHallucinationDetected
		}
		if !strings.HasSuffix(v.Field, ".date_range") {
			allDates = false
		}
		if !strings.HasSuffix(v.Field, ".role") {
			allRoles = false
		}
	}

	switch {
	case allDates:
		return types.CodeDateMismatch
	case allRoles:
		return types.CodeRoleMismatch
	default:
		return types.CodeHallucinationDetected
	}
}
