package rag

import (
	"regexp"
	"strings"
)

// countryAliases maps names, demonyms and slang to country codes. An
// ordered slice, not a map: detection order is the table order, which
// callers rely on for picking the primary country. Aliases are
// matched against the lowercased message only, so accented forms must
// be listed the way users type them.
var countryAliases = []struct {
	alias string
	code  string
}{
	{"brasil", "BR"},
	{"brazil", "BR"},
	{"brasileiro", "BR"},
	{"estados unidos", "US"},
	{"eua", "US"},
	{"usa", "US"},
	{"americano", "US"},
	{"alemanha", "DE"},
	{"germany", "DE"},
	{"alemão", "DE"},
	{"japão", "JP"},
	{"japan", "JP"},
	{"japonês", "JP"},
	{"emirados", "AE"},
	{"dubai", "AE"},
	{"árabe", "AE"},
}

// Standalone uppercase two-letter tokens are treated as country codes
// typed literally ("posso beber no AE?"). Scanned on the
// original-case message so ordinary words never match.
var bareCodePattern = regexp.MustCompile(`\b[A-Z]{2}\b`)

// DetectCountries returns the unique country codes mentioned in a
// message: alias-table hits first, in table order, then bare codes.
func DetectCountries(message string) []string {
	lowered := strings.ToLower(message)

	detected := make([]string, 0)
	seen := make(map[string]struct{})
	add := func(code string) {
		if _, dup := seen[code]; dup {
			return
		}
		seen[code] = struct{}{}
		detected = append(detected, code)
	}

	for _, entry := range countryAliases {
		if strings.Contains(lowered, entry.alias) {
			add(entry.code)
		}
	}

	for _, code := range bareCodePattern.FindAllString(message, -1) {
		add(code)
	}

	return detected
}
