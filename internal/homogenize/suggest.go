package homogenize

import (
	"regexp"
	"sort"
	"strings"

	"fieldscope/internal/models"
)

const suggestionThreshold = 0.55

// SuggestRules proposes synonym rules for fields the fixed stages left
// untouched, by fuzzy-matching each unmatched key against the
// vocabulary of homogenized keys already established in the session.
// One suggestion per unmatched key, best candidate first overall.
func SuggestRules(unmatched []string, vocabulary []string) []models.RuleSuggestion {
	suggestions := []models.RuleSuggestion{}
	for _, key := range unmatched {
		best := ""
		bestScore := 0.0
		for _, candidate := range vocabulary {
			if candidate == key {
				continue
			}
			score := nameSimilarity(key, candidate)
			if score > bestScore {
				best = candidate
				bestScore = score
			}
		}
		if best == "" || bestScore < suggestionThreshold {
			continue
		}
		suggestions = append(suggestions, models.RuleSuggestion{
			ColumnNormalized: key,
			Candidate:        best,
			Score:            bestScore,
			Pattern:          "^" + regexp.QuoteMeta(key) + "$",
			Replacement:      best,
		})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	return suggestions
}

// nameSimilarity blends trigram Jaccard overlap with Levenshtein ratio.
func nameSimilarity(s1, s2 string) float64 {
	return 0.5*trigramJaccard(s1, s2) + 0.5*levenshteinRatio(s1, s2)
}

func trigramJaccard(s1, s2 string) float64 {
	set1 := trigrams(s1)
	set2 := trigrams(s2)

	intersection := 0
	for g := range set1 {
		if set2[g] {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func trigrams(s string) map[string]bool {
	s = strings.ToLower(s)
	grams := make(map[string]bool)
	if len(s) < 3 {
		grams[s] = true
		return grams
	}
	for i := 0; i <= len(s)-3; i++ {
		grams[s[i:i+3]] = true
	}
	return grams
}

func levenshteinRatio(s1, s2 string) float64 {
	distance := levenshtein(strings.ToLower(s1), strings.ToLower(s2))
	maxLen := len([]rune(s1))
	if n := len([]rune(s2)); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

func levenshtein(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	len1, len2 := len(r1), len(r2)

	row := make([]int, len2+1)
	for i := 0; i <= len2; i++ {
		row[i] = i
	}

	for i := 1; i <= len1; i++ {
		prev := i
		for j := 1; j <= len2; j++ {
			val := row[j]
			if r1[i-1] == r2[j-1] {
				val = row[j-1]
			} else {
				val = min(min(row[j-1]+1, prev+1), row[j]+1)
			}
			row[j-1] = prev
			prev = val
		}
		row[len2] = prev
	}
	return row[len2]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
