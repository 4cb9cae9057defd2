// Package azcase provides Azerbaijani (Turkic) lowercasing for matching
// abbreviations and other dictionary keys.
//
// Azerbaijani uses dotted/dotless I variants:
//   - I (U+0049) lowercases to ı (U+0131, dotless small i)
//   - İ (U+0130, dotted capital I) lowercases to i (U+0069)
//
// All other runes use standard Unicode case mapping.
//
// All functions are safe for concurrent use.
package azcase

import (
	"strings"
	"unicode"
)

// Lower returns the Azerbaijani-aware lowercase form of r.
func Lower(r rune) rune {
	switch r {
	case 'I':
		return 'ı' // I -> ı
	case 'İ':
		return 'i' // İ -> i
	default:
		return unicode.ToLower(r)
	}
}

// ToLower returns s with Azerbaijani-aware lowercasing applied to every rune.
// s is returned as is when it has no uppercase runes.
func ToLower(s string) string {
	if strings.IndexFunc(s, unicode.IsUpper) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 1) // I -> ı grows by one byte
	for _, r := range s {
		b.WriteRune(Lower(r))
	}
	return b.String()
}
