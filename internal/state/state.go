package state

import (
	"strings"
	"sync"

	"fieldscope/internal/models"
)

// Session holds everything one interactive session owns: the
// source-system label, options, uploaded reports, the editable synonym
// and definition tables, and the last analysis result. There is exactly
// one logical writer; the mutex only guards against concurrent HTTP
// requests from the same user.
type Session struct {
	mu sync.RWMutex

	sourceSystem string
	options      models.SessionOptions

	reports     []models.Report
	warnings    []string
	synonyms    []models.SynonymRule
	definitions []models.DefinitionEntry

	seedSynonyms    []models.SynonymRule
	seedDefinitions []models.DefinitionEntry

	result *models.AnalysisResult
}

// NewSession creates a session seeded with the starter synonym rules
// and the definition lookup table.
func NewSession(seedSynonyms []models.SynonymRule, seedDefinitions []models.DefinitionEntry) *Session {
	return &Session{
		options:         models.SessionOptions{Mode: models.ModeHomogenize},
		synonyms:        cloneRules(seedSynonyms),
		definitions:     cloneDefinitions(seedDefinitions),
		seedSynonyms:    seedSynonyms,
		seedDefinitions: seedDefinitions,
	}
}

// SetSourceSystem stores the trimmed label. Changing it re-seeds the
// definitions table: definitions are domain knowledge keyed to one
// source system. Returns whether a reset happened.
func (s *Session) SetSourceSystem(label string) bool {
	label = strings.TrimSpace(label)

	s.mu.Lock()
	defer s.mu.Unlock()

	if label == s.sourceSystem {
		return false
	}
	changed := s.sourceSystem != ""
	s.sourceSystem = label
	if changed {
		s.definitions = cloneDefinitions(s.seedDefinitions)
		s.result = nil
	}
	return changed
}

// SourceSystem returns the current label, "" when unset.
func (s *Session) SourceSystem() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sourceSystem
}

// SetOptions overwrites the option switches wholesale.
func (s *Session) SetOptions(opts models.SessionOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if opts.Mode == "" {
		opts.Mode = models.ModeHomogenize
	}
	s.options = opts
}

// Options returns the current option switches.
func (s *Session) Options() models.SessionOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options
}

// AddReports appends newly ingested reports to the session.
func (s *Session) AddReports(reports []models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, reports...)
}

// AddWarnings records per-file ingestion warnings so the next analysis
// run can surface them alongside its tables.
func (s *Session) AddWarnings(warnings []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, warnings...)
}

// Warnings returns the accumulated ingestion warnings.
func (s *Session) Warnings() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// ClearReports drops all ingested reports, their warnings, and the
// stale result.
func (s *Session) ClearReports() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = nil
	s.warnings = nil
	s.result = nil
}

// Reports returns the ingested reports.
func (s *Session) Reports() []models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reports
}

// SetSynonymRules replaces the rule table wholesale, preserving order.
func (s *Session) SetSynonymRules(rules []models.SynonymRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synonyms = cloneRules(rules)
}

// SynonymRules returns a copy of the rule table.
func (s *Session) SynonymRules() []models.SynonymRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRules(s.synonyms)
}

// SetDefinitions replaces the definitions table wholesale.
func (s *Session) SetDefinitions(entries []models.DefinitionEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.definitions = cloneDefinitions(entries)
}

// Definitions returns a copy of the definitions table.
func (s *Session) Definitions() []models.DefinitionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDefinitions(s.definitions)
}

// MergeDefinitions upserts entries for homogenized names seen in the
// latest run, keeping existing flags and text for known names.
func (s *Session) MergeDefinitions(names []string, lookup map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]bool, len(s.definitions))
	for _, entry := range s.definitions {
		known[entry.ColumnHomogenized] = true
	}
	for _, name := range names {
		if known[name] {
			continue
		}
		s.definitions = append(s.definitions, models.DefinitionEntry{
			ColumnHomogenized:  name,
			IncludeFlag:        "Y",
			BusinessDefinition: lookup[name],
		})
		known[name] = true
	}
}

// SetResult stores the outcome of an analysis run.
func (s *Session) SetResult(result *models.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
}

// Result returns the last analysis result, nil before the first run.
func (s *Session) Result() *models.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Status summarizes the session for the status endpoint.
func (s *Session) Status() models.StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.StatusResponse{
		SourceSystem:  s.sourceSystem,
		ReportsLoaded: len(s.reports),
		SynonymRules:  len(s.synonyms),
		Definitions:   len(s.definitions),
		HasResult:     s.result != nil,
	}
}

func cloneRules(rules []models.SynonymRule) []models.SynonymRule {
	out := make([]models.SynonymRule, len(rules))
	copy(out, rules)
	return out
}

func cloneDefinitions(entries []models.DefinitionEntry) []models.DefinitionEntry {
	out := make([]models.DefinitionEntry, len(entries))
	copy(out, entries)
	return out
}
