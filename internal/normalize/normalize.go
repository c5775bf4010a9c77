// Package normalize prepares free-text fields (product names, cart full
// names, search terms) for case/accent-insensitive storage and comparison.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks and recomposes, so
// "café" becomes "cafe".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Value upper-cases, trims and accent-strips s.
func Value(s string) string {
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the raw
		// input so storage still succeeds.
		stripped = s
	}
	return strings.ToUpper(strings.TrimSpace(stripped))
}
