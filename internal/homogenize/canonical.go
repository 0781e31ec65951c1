package homogenize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Canonicalize collapses a raw header value to its token key: lowercase
// alphanumeric runs joined by single underscores, no leading or trailing
// underscores. Idempotent for any input.
func Canonicalize(raw string) string {
	s := foldDiacritics(strings.TrimSpace(raw))
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// foldDiacritics decomposes and strips combining marks so accented
// headers from exported legacy reports key the same as plain ASCII.
func foldDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, decomposed)
}

// collapseKey re-collapses underscores after a substitution pass.
func collapseKey(s string) string {
	s = nonAlnum.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
