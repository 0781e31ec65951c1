package homogenize

import "strings"

// stopwords are filler tokens stripped in normalize-only mode. The list
// is deliberately short; header tokens are rarely prose.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "by": true, "for": true,
	"from": true, "in": true, "of": true, "on": true, "or": true,
	"the": true, "to": true, "with": true,
}

// NormalizeOnly is the alternative pipeline configuration: canonicalize
// without homogenization, optionally dropping stopword tokens. If every
// token is a stopword the canonical key is kept untouched.
func NormalizeOnly(raw string, stripStopwords bool) string {
	key := Canonicalize(raw)
	if !stripStopwords || key == "" {
		return key
	}
	tokens := strings.Split(key, "_")
	kept := tokens[:0]
	for _, tok := range tokens {
		if !stopwords[tok] {
			kept = append(kept, tok)
		}
	}
	if len(kept) == 0 {
		return key
	}
	return strings.Join(kept, "_")
}
