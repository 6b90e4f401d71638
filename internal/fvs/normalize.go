// Package fvs implements the Fact Verification System: it checks LLM-generated
// career documents against an immutable fact baseline extracted from the user's
// source CV, and reports any fact that cannot be traced back to that baseline.
//
// The package is pure: no I/O, no shared mutable state. Violations are returned
// as data, never as errors, so callers can decide how strictly to act on them.
package fvs

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// dashVariants unifies en-dash, em-dash and minus sign to a plain hyphen.
	dashVariants = strings.NewReplacer("–", "-", "—", "-", "−", "-")

	// spacedDash collapses whitespace around a hyphen so "2021 - present" and
	// "2021-present" compare equal.
	spacedDash = regexp.MustCompile(`\s*-\s*`)

	// dateSeparator rewrites digit/digit and digit.digit to digit-digit so
	// "2020/05" and "2020.05" normalize to "2020-05".
	dateSeparator = regexp.MustCompile(`(\d)[/.](\d)`)

	// presentSentinel unifies the open-ended date tokens to a single sentinel.
	presentSentinel = regexp.MustCompile(`\b(present|current|now|ongoing)\b`)
)

// trailingPunct are punctuation characters stripped from the end of a
// normalized string. Dashes are deliberately excluded: a trailing dash in a
// date range ("2021-") is meaningful.
const trailingPunct = ".,;:!?"

// Normalize produces the canonical comparison key for a string: lower-cased,
// diacritics stripped, internal whitespace collapsed, dash variants unified,
// trailing punctuation removed. It is deterministic, pure and idempotent.
// It only canonicalizes syntax; two genuinely different facts never collapse
// to the same key.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = stripDiacritics(s)
	s = dashVariants.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = spacedDash.ReplaceAllString(s, "-")
	s = strings.TrimRight(s, trailingPunct)
	return strings.TrimSpace(s)
}

// NormalizeDateRange normalizes a date-range string for comparison. On top of
// Normalize it unifies "Present"/"Current"/"Now"/"Ongoing" to a single sentinel
// and rewrites year-month separators to one style.
func NormalizeDateRange(text string) string {
	s := strings.ToLower(text)
	s = dateSeparator.ReplaceAllString(s, "$1-$2")
	s = presentSentinel.ReplaceAllString(s, "present")
	return Normalize(s)
}

// stripDiacritics removes combining marks after canonical decomposition, so
// "Zoë" and "Zoe" produce the same key.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
