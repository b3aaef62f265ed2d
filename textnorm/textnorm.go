// Package textnorm provides the text normalization shared by the
// similarity metrics and the chat keyword extractor.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining diacritical marks, so
// "não" becomes "nao". Transformers carry internal buffers, so a
// fresh chain is built per call rather than shared.
func Fold(s string) string {
	lowered := strings.ToLower(s)
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, lowered)
	if err != nil {
		return lowered
	}
	return folded
}

// Tokens normalizes s into word tokens: lowercase, accent strip,
// every non-word non-space character replaced by a space, split on
// whitespace, tokens of length <= 2 dropped. Pure and deterministic;
// stopword removal is left to the keyword extractor.
func Tokens(s string) []string {
	folded := Fold(s)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	var tokens []string
	for _, w := range strings.Fields(b.String()) {
		if len(w) > 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// TokenSet returns the unique tokens of s.
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokens(s) {
		set[tok] = struct{}{}
	}
	return set
}
