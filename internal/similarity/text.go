// Package similarity implements the pairwise signals used to decide whether
// two service records describe the same real-world service. Every scorer
// returns a value in [0,1] and treats missing input as "no evidence" (0),
// never as evidence of difference.
package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// orgSuffixes are legal-entity suffixes stripped before comparing
// organization names. Order matters: compound suffixes like "pty ltd" fall
// away because "ltd" is removed before "pty" is checked.
var orgSuffixes = []string{
	"inc", "incorporated", "ltd", "limited", "pty", "proprietary",
	"llc", "corp", "corporation", "co", "company", "association",
	"assoc", "org", "organization", "society", "foundation",
}

// NormalizeText lowercases, replaces punctuation with spaces, and collapses
// runs of whitespace.
func NormalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastSpace := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		// Punctuation and whitespace both become a single separator.
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// TextSimilarity compares two strings after normalization: 1.0 on exact
// match, otherwise edit distance scaled by the longer string's length.
// Returns 0 when either side normalizes to empty.
func TextSimilarity(a, b string) float64 {
	na := NormalizeText(a)
	nb := NormalizeText(b)
	return normalizedSimilarity(na, nb)
}

// normalizedSimilarity assumes its inputs are already normalized.
func normalizedSimilarity(na, nb string) float64 {
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	maxLen := utf8.RuneCountInString(na)
	if l := utf8.RuneCountInString(nb); l > maxLen {
		maxLen = l
	}

	dist := levenshtein.ComputeDistance(na, nb)
	return 1 - float64(dist)/float64(maxLen)
}

// JaccardWords returns |intersection| / |union| of the whitespace-tokenized
// word sets of two normalized strings. Empty inputs yield 0.
func JaccardWords(na, nb string) float64 {
	wordsA := strings.Fields(na)
	wordsB := strings.Fields(nb)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		setB[w] = struct{}{}
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// StripOrgSuffixes removes trailing legal-entity suffixes from a normalized
// organization name. Each suffix is removed at most once, in list order.
func StripOrgSuffixes(name string) string {
	cleaned := name
	for _, suffix := range orgSuffixes {
		if cleaned == suffix {
			return ""
		}
		if strings.HasSuffix(cleaned, " "+suffix) {
			cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, suffix))
		}
	}
	return cleaned
}
