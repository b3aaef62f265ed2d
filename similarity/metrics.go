// Package similarity scores proposed cartilha entries against
// existing ones to surface near-duplicates during entry creation.
package similarity

import (
	"strings"

	"cartilha-backend/textnorm"
)

// Jaccard computes token-set similarity between two strings in [0, 1].
// Tokens come from the shared normalizer, so accents and punctuation
// do not affect the result. Returns 0 when both strings normalize to
// nothing.
func Jaccard(a, b string) float64 {
	if a == b && a != "" {
		return 1.0
	}

	setA := textnorm.TokenSet(a)
	setB := textnorm.TokenSet(b)

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Levenshtein computes normalized edit-distance similarity between
// two strings in [0, 1]: 1 - distance/max(len). Case-insensitive on
// the raw strings; accents are significant here, unlike Jaccard.
func Levenshtein(a, b string) float64 {
	s1 := []rune(strings.ToLower(a))
	s2 := []rune(strings.ToLower(b))

	if string(s1) == string(s2) {
		return 1.0
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := 0; j <= len(s2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	maxLen := max(len(s1), len(s2))
	return 1 - float64(prev[len(s2)])/float64(maxLen)
}
