package models

// FieldOccurrence is one row of the field inventory: a single original
// column observed in a single report, with every stage of its renaming.
type FieldOccurrence struct {
	SourceSystem       string `json:"source_system"`
	FileName           string `json:"file_name"`
	SheetName          string `json:"sheet_name"`
	ReportName         string `json:"report_name"`
	ColumnOriginal     string `json:"column_original"`
	ColumnNormalized   string `json:"column_normalized"`
	ColumnBase         string `json:"column_base_homogenized"`
	ColumnHomogenized  string `json:"column_homogenized"`
	IncludeFlag        string `json:"include_flag"`
	BusinessDefinition string `json:"business_definition"`
	Confidence         string `json:"confidence"`
}

// ConfidenceRow is the confidence view of one field occurrence: the
// transformation journey plus its confidence grade.
type ConfidenceRow struct {
	ReportName        string `json:"report_name"`
	ColumnOriginal    string `json:"column_original"`
	ColumnNormalized  string `json:"column_normalized"`
	ColumnBase        string `json:"column_base_homogenized"`
	ColumnHomogenized string `json:"column_homogenized"`
	Confidence        string `json:"confidence"`
}

// SynonymRule is one user-editable rewrite rule. Rules apply in table
// order; Enabled is "Y" or "N" to match the editable grid.
type SynonymRule struct {
	Enabled     string `json:"enabled"`
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

// DefinitionEntry is one row of the business-definition table, keyed by
// homogenized field name.
type DefinitionEntry struct {
	ColumnHomogenized  string `json:"column_homogenized"`
	IncludeFlag        string `json:"include_flag"`
	BusinessDefinition string `json:"business_definition"`
}

// Report is the unit of cross-tabulation: one sheet of an uploaded
// workbook, one CSV file, or one database table.
type Report struct {
	FileName  string     `json:"file_name"`
	SheetName string     `json:"sheet_name"`
	Name      string     `json:"report_name"`
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"-"`
}

// ProfileRow summarizes one ingested report for the profiling preview.
type ProfileRow struct {
	ReportName string `json:"report_name"`
	FileName   string `json:"file_name"`
	SheetName  string `json:"sheet_name"`
	NumRows    int    `json:"rows"`
	NumColumns int    `json:"columns"`
}

// ColumnProfile holds per-column quality metrics for the profiling view.
type ColumnProfile struct {
	ReportName      string  `json:"report_name"`
	ColumnName      string  `json:"column_name"`
	InferredType    string  `json:"inferred_type"`
	NonNullRows     int     `json:"non_null_rows"`
	NullRate        float64 `json:"null_rate"`
	DistinctCount   int     `json:"distinct_count"`
	UniquenessRatio float64 `json:"uniqueness_ratio"`
}

// CollapseRow shows which original spellings collapsed into one
// homogenized field.
type CollapseRow struct {
	ColumnHomogenized string   `json:"column_homogenized"`
	SourceVariants    []string `json:"source_variants"`
	VariantCount      int      `json:"variant_count"`
}

// RuleEffectiveness counts how many base-homogenized keys a synonym
// rule's pattern matched. Disabled and skipped rules count zero.
type RuleEffectiveness struct {
	Pattern       string `json:"pattern"`
	Replacement   string `json:"replacement"`
	Enabled       string `json:"enabled"`
	MatchedFields int    `json:"matched_fields"`
	Skipped       bool   `json:"skipped"`
	SkipReason    string `json:"skip_reason,omitempty"`
}

// RuleSuggestion proposes a synonym rule for an unmatched field, scored
// against the existing homogenized vocabulary.
type RuleSuggestion struct {
	ColumnNormalized string  `json:"column_normalized"`
	Candidate        string  `json:"candidate"`
	Score            float64 `json:"score"`
	Pattern          string  `json:"pattern"`
	Replacement      string  `json:"replacement"`
}

// SummaryMetrics is the counter block shown after an analysis run.
type SummaryMetrics struct {
	Reports                   int `json:"reports"`
	FieldInstances            int `json:"field_instances"`
	DistinctOriginal          int `json:"distinct_original"`
	DistinctNormalized        int `json:"distinct_normalized"`
	DistinctHomogenized       int `json:"distinct_homogenized"`
	IncludedMissingDefinition int `json:"included_missing_definition"`
}

// CrossTabRow is one field row of a presence cross-tab. Marks holds an
// "X" or "" per report, in the cross-tab's report order.
type CrossTabRow struct {
	Field      string   `json:"field"`
	Marks      []string `json:"marks"`
	Repetition int      `json:"repetition_count"`
}

// CrossTab is a field-by-report presence matrix with a trailing
// repetition-count column and a totals row.
type CrossTab struct {
	Reports []string      `json:"reports"`
	Rows    []CrossTabRow `json:"rows"`
	Totals  []int         `json:"totals"`
}
