package models

// UploadResponse is returned after a multipart upload. Failed files are
// reported as warnings; the upload succeeds if any report was read.
type UploadResponse struct {
	Message  string   `json:"message"`
	Reports  []Report `json:"reports"`
	Warnings []string `json:"warnings,omitempty"`
}

// StatusResponse is returned by /session status checks.
type StatusResponse struct {
	SourceSystem  string `json:"source_system"`
	ReportsLoaded int    `json:"reports_loaded"`
	SynonymRules  int    `json:"synonym_rules"`
	Definitions   int    `json:"definitions"`
	HasResult     bool   `json:"has_result"`
}

// SynonymTable is the wholesale get/put payload for the rule grid.
type SynonymTable struct {
	Rules []SynonymRule `json:"rules"`
}

// DefinitionTable is the wholesale get/put payload for the definitions grid.
type DefinitionTable struct {
	Entries []DefinitionEntry `json:"entries"`
}
