package models

// Pipeline modes. Homogenize runs the full canonicalize → base rules →
// synonym rules chain; Normalize only canonicalizes, optionally
// stripping stopwords. The two are alternative configurations.
const (
	ModeHomogenize = "homogenize"
	ModeNormalize  = "normalize"
)

// SessionOptions are the user-editable switches for an analysis run.
type SessionOptions struct {
	Mode               string `json:"mode"`
	StripStopwords     bool   `json:"strip_stopwords"`
	ExportIncludedOnly bool   `json:"export_included_only"`
}

// SessionConfig is the config surface of one interactive session.
type SessionConfig struct {
	SourceSystem string         `json:"source_system"`
	Options      SessionOptions `json:"options"`
}

// RuleFailure records a synonym rule that was skipped during a run, so
// the user can fix it instead of it failing silently.
type RuleFailure struct {
	Index   int    `json:"index"`
	Pattern string `json:"pattern"`
	Reason  string `json:"reason"`
}

// AnalysisResult bundles every table derived from one analysis run.
// It is recomputed wholesale on each run and never mutated in place.
type AnalysisResult struct {
	SourceSystem        string                  `json:"source_system"`
	Fields              []FieldOccurrence       `json:"fields"`
	Profiles            []ProfileRow            `json:"profiles"`
	ColumnProfiles      []ColumnProfile         `json:"column_profiles"`
	CrossTabOriginal    CrossTab                `json:"crosstab_original"`
	CrossTabHomogenized CrossTab                `json:"crosstab_homogenized"`
	Rationalization     []RationalizationRecord `json:"rationalization"`
	Collapse            []CollapseRow           `json:"collapse"`
	Unmatched           []FieldOccurrence       `json:"unmatched"`
	Effectiveness       []RuleEffectiveness     `json:"effectiveness"`
	Suggestions         []RuleSuggestion        `json:"suggestions"`
	Metrics             SummaryMetrics          `json:"metrics"`
	SkippedRules        []RuleFailure           `json:"skipped_rules"`
	Warnings            []string                `json:"warnings"`
}
