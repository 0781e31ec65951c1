package service

import (
	"fmt"
	"sort"
	"strings"

	"fieldscope/internal/homogenize"
	"fieldscope/internal/ingest"
	"fieldscope/internal/models"
	"fieldscope/internal/rationalize"
	"fieldscope/internal/state"
)

// AnalysisService runs the full discovery pipeline over the session's
// reports: canonicalize and homogenize every header, merge business
// definitions, cross-tabulate presence, and score reports for
// redundancy. One synchronous run per trigger, result replaces the last.
type AnalysisService struct {
	session *state.Session
	lookup  map[string]string
	scorer  *rationalize.Scorer
}

// NewAnalysisService wires the service to the session, the definition
// lookup, and the rationalization policy.
func NewAnalysisService(session *state.Session, lookup map[string]string, thresholds rationalize.Thresholds) *AnalysisService {
	return &AnalysisService{
		session: session,
		lookup:  lookup,
		scorer:  rationalize.NewScorer(thresholds),
	}
}

// Run executes one analysis pass. It fails fast when the source system
// is unset or no reports are loaded, and halts before the derived
// tables when no fields could be extracted.
func (s *AnalysisService) Run() (*models.AnalysisResult, error) {
	source := strings.TrimSpace(s.session.SourceSystem())
	if source == "" {
		return nil, fmt.Errorf("source system name is required")
	}

	reports := s.session.Reports()
	if len(reports) == 0 {
		return nil, fmt.Errorf("no files uploaded")
	}

	opts := s.session.Options()
	rules := s.session.SynonymRules()
	pipeline := homogenize.NewPipeline(opts, rules)

	result := &models.AnalysisResult{SourceSystem: source}

	for _, report := range reports {
		result.Profiles = append(result.Profiles, ingest.Profile(report))
		result.ColumnProfiles = append(result.ColumnProfiles, ingest.ProfileColumns(report)...)

		for _, header := range report.Headers {
			if strings.TrimSpace(header) == "" {
				continue
			}
			outcome := pipeline.Run(header)
			result.Fields = append(result.Fields, models.FieldOccurrence{
				SourceSystem:      source,
				FileName:          report.FileName,
				SheetName:         report.SheetName,
				ReportName:        report.Name,
				ColumnOriginal:    header,
				ColumnNormalized:  outcome.Normalized,
				ColumnBase:        outcome.Base,
				ColumnHomogenized: outcome.Final,
				Confidence:        outcome.Confidence,
			})
		}
	}

	if len(result.Fields) == 0 {
		return nil, fmt.Errorf("no fields extracted from any uploaded file")
	}

	s.applyDefinitions(result)

	result.CrossTabOriginal = buildCrossTab(result.Fields, func(f models.FieldOccurrence) string { return f.ColumnOriginal })
	result.CrossTabHomogenized = buildCrossTab(result.Fields, func(f models.FieldOccurrence) string { return f.ColumnHomogenized })
	result.Rationalization = s.scorer.Score(result.Fields)
	result.Collapse = buildCollapse(result.Fields)
	result.Unmatched = buildUnmatched(result.Fields)
	result.Effectiveness = pipeline.Engine().Effectiveness(rules, baseKeys(result.Fields))
	result.Suggestions = homogenize.SuggestRules(unmatchedKeys(result.Unmatched), homogenizedVocabulary(result.Fields))
	result.SkippedRules = pipeline.Engine().Failures()
	result.Warnings = s.session.Warnings()
	result.Metrics = buildMetrics(result.Fields, s.session.Definitions())

	s.session.SetResult(result)
	return result, nil
}

// applyDefinitions upserts the definitions table with names from this
// run, then stamps include flags and definition text onto each row.
func (s *AnalysisService) applyDefinitions(result *models.AnalysisResult) {
	names := []string{}
	seen := map[string]bool{}
	for _, f := range result.Fields {
		if !seen[f.ColumnHomogenized] {
			seen[f.ColumnHomogenized] = true
			names = append(names, f.ColumnHomogenized)
		}
	}
	s.session.MergeDefinitions(names, s.lookup)

	byName := map[string]models.DefinitionEntry{}
	for _, entry := range s.session.Definitions() {
		byName[entry.ColumnHomogenized] = entry
	}
	for i := range result.Fields {
		if entry, ok := byName[result.Fields[i].ColumnHomogenized]; ok {
			result.Fields[i].IncludeFlag = entry.IncludeFlag
			result.Fields[i].BusinessDefinition = entry.BusinessDefinition
		}
	}
}

func buildCollapse(fields []models.FieldOccurrence) []models.CollapseRow {
	variants := map[string][]string{}
	seen := map[string]map[string]bool{}
	for _, f := range fields {
		if seen[f.ColumnHomogenized] == nil {
			seen[f.ColumnHomogenized] = map[string]bool{}
		}
		if !seen[f.ColumnHomogenized][f.ColumnOriginal] {
			seen[f.ColumnHomogenized][f.ColumnOriginal] = true
			variants[f.ColumnHomogenized] = append(variants[f.ColumnHomogenized], f.ColumnOriginal)
		}
	}

	rows := make([]models.CollapseRow, 0, len(variants))
	for name, list := range variants {
		rows = append(rows, models.CollapseRow{
			ColumnHomogenized: name,
			SourceVariants:    list,
			VariantCount:      len(list),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ColumnHomogenized < rows[j].ColumnHomogenized
	})
	return rows
}

// buildUnmatched lists occurrences the fixed and synonym stages both
// left untouched; these need rule review.
func buildUnmatched(fields []models.FieldOccurrence) []models.FieldOccurrence {
	unmatched := []models.FieldOccurrence{}
	for _, f := range fields {
		if f.ColumnNormalized == f.ColumnHomogenized {
			unmatched = append(unmatched, f)
		}
	}
	return unmatched
}

func unmatchedKeys(unmatched []models.FieldOccurrence) []string {
	keys := []string{}
	seen := map[string]bool{}
	for _, f := range unmatched {
		if !seen[f.ColumnNormalized] {
			seen[f.ColumnNormalized] = true
			keys = append(keys, f.ColumnNormalized)
		}
	}
	return keys
}

func homogenizedVocabulary(fields []models.FieldOccurrence) []string {
	vocab := []string{}
	seen := map[string]bool{}
	for _, f := range fields {
		if !seen[f.ColumnHomogenized] {
			seen[f.ColumnHomogenized] = true
			vocab = append(vocab, f.ColumnHomogenized)
		}
	}
	return vocab
}

func baseKeys(fields []models.FieldOccurrence) []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.ColumnBase
	}
	return keys
}

func buildMetrics(fields []models.FieldOccurrence, definitions []models.DefinitionEntry) models.SummaryMetrics {
	reports := map[string]bool{}
	original := map[string]bool{}
	normalized := map[string]bool{}
	homogenized := map[string]bool{}
	for _, f := range fields {
		reports[f.ReportName] = true
		original[f.ColumnOriginal] = true
		normalized[f.ColumnNormalized] = true
		homogenized[f.ColumnHomogenized] = true
	}

	missing := 0
	for _, entry := range definitions {
		if entry.IncludeFlag == "Y" && strings.TrimSpace(entry.BusinessDefinition) == "" {
			missing++
		}
	}

	return models.SummaryMetrics{
		Reports:                   len(reports),
		FieldInstances:            len(fields),
		DistinctOriginal:          len(original),
		DistinctNormalized:        len(normalized),
		DistinctHomogenized:       len(homogenized),
		IncludedMissingDefinition: missing,
	}
}
