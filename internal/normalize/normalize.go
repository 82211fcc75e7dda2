// Package normalize canonicalizes raw company-name strings for comparison.
// Normalized forms are used as cache keys and for exact/variant matching;
// stored names keep their original casing and punctuation.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Trailing legal-entity designators, optionally preceded by a comma.
	// Applied repeatedly so compound suffixes like "Co., Ltd." fully strip.
	legalSuffixRe = regexp.MustCompile(`(?i)[\s,]+(inc|incorporated|corp|corporation|co|company|llc|l\.l\.c|ltd|limited|llp|l\.l\.p|plc|pllc|gmbh|ag|s\.a|sa|sarl|bv|nv|pte|pty|kk|k\.k|oy|ab|as)\.?$`)

	spaceRe = regexp.MustCompile(`\s+`)

	punctReplacer = strings.NewReplacer(
		".", " ",
		",", " ",
		"'", "",
		"’", "",
		`"`, "",
		"(", " ",
		")", " ",
	)

	// Strips combining marks after NFD decomposition, so "Müller" and
	// "Muller" compare equal.
	diacriticFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Name returns the canonical comparison form of a raw company name.
// It is a total function: any input, including the empty string, yields a
// deterministic result and never an error.
func Name(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(diacriticFold, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	// Strip legal suffixes from the end until the name stops shrinking.
	for {
		trimmed := strings.TrimRight(s, " .,")
		trimmed = legalSuffixRe.ReplaceAllString(trimmed, "")
		if trimmed == s {
			break
		}
		s = trimmed
	}

	s = punctReplacer.Replace(s)
	s = spaceRe.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}
