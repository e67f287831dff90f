// Package textnorm canonicalizes text for case and accent insensitive
// comparison. It is used by ledger matching and keyword detection,
// never for display.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, decomposes and strips diacritical marks and
// trims surrounding whitespace. Pure and total; empty input yields "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		// Removal of combining marks cannot fail on valid UTF-8; fall
		// back to the lower-cased input on malformed bytes.
		out = strings.ToLower(s)
	}
	return strings.TrimSpace(out)
}

// Contains reports whether haystack contains needle after both are
// normalized.
func Contains(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}

// Equal reports whether two strings are identical after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
