package fvs

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/career-docs/internal/types"
)

// FieldMismatch is a pending discrepancy found by the matcher. The matcher does
// not assign severity; that is the classifier's job, which keeps matching and
// scoring independently testable.
type FieldMismatch struct {
	Field    string
	Expected string
	Actual   string
}

// MatchResult reports how one candidate entry relates to the baseline.
type MatchResult struct {
	// Fabricated is true when no baseline entry matches the candidate's
	// primary key (company or institution) even after normalization.
	Fabricated bool
	// Ambiguous is true when multiple baseline entries share the candidate's
	// company and none matches the candidate's role exactly. Ambiguity is
	// resolved conservatively: a mismatch is only reported when the candidate
	// disagrees with every plausible entry.
	Ambiguous bool
	// Mismatches holds the field-level discrepancies against the best match.
	Mismatches []FieldMismatch
}

// MatchWorkEntry finds the baseline work entry the candidate entry is claiming
// to represent and reports field-level mismatches. index is the candidate's
// position, used to build path-like field identifiers.
//
// Matching is keyed on normalized company equality. Ties on company are broken
// by exact normalized role match; if the tie cannot be broken, every entry with
// that company is checked and a field only mismatches when the candidate value
// disagrees with all of them.
func MatchWorkEntry(baseline []types.WorkEntry, candidate types.WorkEntry, index int) MatchResult {
	companyKey := Normalize(candidate.Company)

	var sameCompany []types.WorkEntry
	for _, entry := range baseline {
		if Normalize(entry.Company) == companyKey {
			sameCompany = append(sameCompany, entry)
		}
	}

	if len(sameCompany) == 0 {
		return MatchResult{Fabricated: true}
	}

	if len(sameCompany) == 1 {
		return MatchResult{Mismatches: compareWorkFields(sameCompany[0], candidate, index)}
	}

	// Multiple roles at the same company: prefer an exact role match.
	roleKey := Normalize(candidate.Role)
	for _, entry := range sameCompany {
		if Normalize(entry.Role) == roleKey {
			return MatchResult{Mismatches: compareWorkFields(entry, candidate, index)}
		}
	}

	// Ambiguous tie. Report a field mismatch only if the candidate value
	// disagrees with every same-company entry; expected shows the first entry.
	result := MatchResult{Ambiguous: true}
	if !anyRoleMatches(sameCompany, roleKey) {
		result.Mismatches = append(result.Mismatches, FieldMismatch{
			Field:    fmt.Sprintf("experience[%d].role", index),
			Expected: sameCompany[0].Role,
			Actual:   candidate.Role,
		})
	}
	dateKey := NormalizeDateRange(candidate.DateRange)
	if !anyDateMatches(sameCompany, dateKey) {
		result.Mismatches = append(result.Mismatches, FieldMismatch{
			Field:    fmt.Sprintf("experience[%d].date_range", index),
			Expected: sameCompany[0].DateRange,
			Actual:   candidate.DateRange,
		})
	}
	return result
}

func compareWorkFields(expected, candidate types.WorkEntry, index int) []FieldMismatch {
	var mismatches []FieldMismatch
	if Normalize(expected.Role) != Normalize(candidate.Role) {
		mismatches = append(mismatches, FieldMismatch{
			Field:    fmt.Sprintf("experience[%d].role", index),
			Expected: expected.Role,
			Actual:   candidate.Role,
		})
	}
	if NormalizeDateRange(expected.DateRange) != NormalizeDateRange(candidate.DateRange) {
		mismatches = append(mismatches, FieldMismatch{
			Field:    fmt.Sprintf("experience[%d].date_range", index),
			Expected: expected.DateRange,
			Actual:   candidate.DateRange,
		})
	}
	return mismatches
}

func anyRoleMatches(entries []types.WorkEntry, roleKey string) bool {
	for _, entry := range entries {
		if Normalize(entry.Role) == roleKey {
			return true
		}
	}
	return false
}

func anyDateMatches(entries []types.WorkEntry, dateKey string) bool {
	for _, entry := range entries {
		if NormalizeDateRange(entry.DateRange) == dateKey {
			return true
		}
	}
	return false
}

// MatchEducationEntry finds the baseline education entry matching the candidate
// by normalized institution and reports a degree mismatch if present.
func MatchEducationEntry(baseline []types.EducationEntry, candidate types.EducationEntry, index int) MatchResult {
	institutionKey := Normalize(candidate.Institution)

	for _, entry := range baseline {
		if Normalize(entry.Institution) != institutionKey {
			continue
		}
		var mismatches []FieldMismatch
		if Normalize(entry.Degree) != Normalize(candidate.Degree) {
			mismatches = append(mismatches, FieldMismatch{
				Field:    fmt.Sprintf("education[%d].degree", index),
				Expected: entry.Degree,
				Actual:   candidate.Degree,
			})
		}
		return MatchResult{Mismatches: mismatches}
	}

	return MatchResult{Fabricated: true}
}

// EntityMention is a company or role name found in narrative prose that does
// not correspond to any baseline entry.
type EntityMention struct {
	Kind string // "company" or "role"
	Text string
}

var (
	// companyMention captures a capitalized phrase following a preposition
	// that typically introduces an employer ("at Acme Corp", "with Initech").
	companyMention = regexp.MustCompile(`\b(?:at|with|for|joined)\s+((?:[A-Z][\w&'.-]*)(?:\s+[A-Z][\w&'.-]*)*)`)

	// roleMention captures a capitalized phrase following "as"/"as a"/"as an",
	// the usual way prose introduces a job title.
	roleMention = regexp.MustCompile(`\bas\s+(?:an?\s+)?((?:[A-Z][\w&'.-]*)(?:\s+[A-Z][\w&'.-]*)*)`)
)

// ScanNarrative scans free-text prose for company and role mentions that do
// not correspond to any baseline entry. allowed lists extra entity names that
// are legitimate in context (typically the VPR's own target company and role).
//
// The scan is a known-entity substring heuristic: it will under-detect
// paraphrased fabrications that never name an entity, and may over-flag
// coincidental collisions. Stronger NLP entity matching is out of scope.
func ScanNarrative(baseline *types.FactBaseline, text string, allowed []string) []EntityMention {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	allowedKeys := make([]string, 0, len(allowed))
	for _, a := range allowed {
		if key := Normalize(a); key != "" {
			allowedKeys = append(allowedKeys, key)
		}
	}

	var mentions []EntityMention
	for _, m := range companyMention.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || isKnownCompany(baseline, name) || isAllowed(allowedKeys, name) {
			continue
		}
		mentions = append(mentions, EntityMention{Kind: "company", Text: name})
	}
	for _, m := range roleMention.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || isKnownRole(baseline, name) || isAllowed(allowedKeys, name) {
			continue
		}
		mentions = append(mentions, EntityMention{Kind: "role", Text: name})
	}
	return mentions
}

// isKnownCompany reports whether the mention corresponds to a baseline
// employer. Containment is checked both ways so "Acme" matches "Acme Corp".
func isKnownCompany(baseline *types.FactBaseline, mention string) bool {
	key := Normalize(mention)
	if key == "" {
		return true
	}
	for _, entry := range baseline.WorkHistory {
		companyKey := Normalize(entry.Company)
		if companyKey == "" {
			continue
		}
		if strings.Contains(key, companyKey) || strings.Contains(companyKey, key) {
			return true
		}
	}
	for _, entry := range baseline.Education {
		institutionKey := Normalize(entry.Institution)
		if institutionKey == "" {
			continue
		}
		if strings.Contains(key, institutionKey) || strings.Contains(institutionKey, key) {
			return true
		}
	}
	return false
}

func isKnownRole(baseline *types.FactBaseline, mention string) bool {
	key := Normalize(mention)
	if key == "" {
		return true
	}
	for _, entry := range baseline.WorkHistory {
		roleKey := Normalize(entry.Role)
		if roleKey == "" {
			continue
		}
		if strings.Contains(key, roleKey) || strings.Contains(roleKey, key) {
			return true
		}
	}
	return false
}

func isAllowed(allowedKeys []string, mention string) bool {
	key := Normalize(mention)
	for _, a := range allowedKeys {
		if strings.Contains(key, a) || strings.Contains(a, key) {
			return true
		}
	}
	return false
}
