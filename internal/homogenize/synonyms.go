package homogenize

import (
	"regexp"

	"fieldscope/internal/models"
)

type compiledRule struct {
	index       int
	re          *regexp.Regexp
	replacement string
}

// SynonymEngine applies the user-editable rule table on top of the base
// homogenizer output. Rules run in table order, each feeding the next.
// A malformed rule is recorded and skipped; it never aborts the run.
type SynonymEngine struct {
	compiled []compiledRule
	failures []models.RuleFailure
}

// NewSynonymEngine compiles the enabled rules once for a run. Disabled
// rules and rules with an empty pattern are skipped without being
// counted as failures.
func NewSynonymEngine(rules []models.SynonymRule) *SynonymEngine {
	e := &SynonymEngine{}
	for i, rule := range rules {
		if rule.Enabled != "Y" || rule.Pattern == "" {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			e.failures = append(e.failures, models.RuleFailure{
				Index:   i,
				Pattern: rule.Pattern,
				Reason:  err.Error(),
			})
			continue
		}
		e.compiled = append(e.compiled, compiledRule{
			index:       i,
			re:          re,
			replacement: rule.Replacement,
		})
	}
	return e
}

// Apply runs every compiled rule in order against the key and returns
// the re-collapsed result, the field's final homogenized identity.
func (e *SynonymEngine) Apply(key string) string {
	out := key
	for _, r := range e.compiled {
		out = r.re.ReplaceAllString(out, r.replacement)
	}
	return collapseKey(out)
}

// Failures returns the rules skipped during compilation.
func (e *SynonymEngine) Failures() []models.RuleFailure {
	return e.failures
}

// Effectiveness counts, per rule in the original table, how many of the
// given base-homogenized keys its pattern matches. Disabled, empty and
// skipped rules report zero matches.
func (e *SynonymEngine) Effectiveness(rules []models.SynonymRule, baseKeys []string) []models.RuleEffectiveness {
	skipped := make(map[int]string, len(e.failures))
	for _, f := range e.failures {
		skipped[f.Index] = f.Reason
	}
	active := make(map[int]*regexp.Regexp, len(e.compiled))
	for _, c := range e.compiled {
		active[c.index] = c.re
	}

	out := make([]models.RuleEffectiveness, 0, len(rules))
	for i, rule := range rules {
		eff := models.RuleEffectiveness{
			Pattern:     rule.Pattern,
			Replacement: rule.Replacement,
			Enabled:     rule.Enabled,
		}
		if reason, ok := skipped[i]; ok {
			eff.Skipped = true
			eff.SkipReason = reason
		} else if re, ok := active[i]; ok {
			for _, key := range baseKeys {
				if re.MatchString(key) {
					eff.MatchedFields++
				}
			}
		}
		out = append(out, eff)
	}
	return out
}
