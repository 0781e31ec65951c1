package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"fieldscope/internal/config"
	"fieldscope/internal/export"
	"fieldscope/internal/ingest"
	"fieldscope/internal/models"
	"fieldscope/internal/service"
	"fieldscope/internal/state"
)

const MaxUploadSize = 50 * 1024 * 1024 // 50MB

type Handler struct {
	Session         *state.Session
	AnalysisService *service.AnalysisService
	Config          config.Config
	CurrentDB       ingest.DataSource // Active DB connection, nil until /api/db/connect
}

func NewHandler(session *state.Session, analysisService *service.AnalysisService, cfg config.Config) *Handler {
	return &Handler{
		Session:         session,
		AnalysisService: analysisService,
		Config:          cfg,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Get("/session", h.GetSession)
	r.Post("/session", h.ConfigureSession)

	r.Post("/upload", h.Upload)
	r.Delete("/upload", h.ClearUploads)

	r.Get("/synonyms", h.GetSynonyms)
	r.Put("/synonyms", h.PutSynonyms)
	r.Get("/definitions", h.GetDefinitions)
	r.Put("/definitions", h.PutDefinitions)

	r.Post("/analyze", h.Analyze)

	r.Get("/results/fields", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.Fields }))
	r.Get("/results/profile", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.Profiles }))
	r.Get("/results/columns", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.ColumnProfiles }))
	r.Get("/results/crosstab/original", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.CrossTabOriginal }))
	r.Get("/results/crosstab/homogenized", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.CrossTabHomogenized }))
	r.Get("/results/rationalization", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.Rationalization }))
	r.Get("/results/journey", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.Fields }))
	r.Get("/results/collapse", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.Collapse }))
	r.Get("/results/unmatched", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.Unmatched }))
	r.Get("/results/effectiveness", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.Effectiveness }))
	r.Get("/results/confidence", h.resultTable(func(res *models.AnalysisResult) interface{} { return confidenceRows(res.Fields) }))
	r.Get("/results/suggestions", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.Suggestions }))
	r.Get("/results/metrics", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.Metrics }))
	r.Get("/results/skipped-rules", h.resultTable(func(res *models.AnalysisResult) interface{} { return res.SkippedRules }))

	r.Get("/export", h.Export)

	// DB Routes
	r.Post("/api/db/connect", h.ConnectDB)
	r.Get("/api/db/tables", h.ListTables)
	r.Post("/api/db/analyze", h.IngestTable)
}

// ============================================================================
// Health / Session
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	status := h.Session.Status()
	resp := map[string]interface{}{
		"status":  status,
		"options": h.Session.Options(),
	}
	writeJSON(w, resp)
}

func (h *Handler) ConfigureSession(w http.ResponseWriter, r *http.Request) {
	var cfg models.SessionConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(cfg.SourceSystem) == "" {
		http.Error(w, "source_system is required", http.StatusBadRequest)
		return
	}
	if cfg.Options.Mode != "" && cfg.Options.Mode != models.ModeHomogenize && cfg.Options.Mode != models.ModeNormalize {
		http.Error(w, fmt.Sprintf("mode must be %q or %q", models.ModeHomogenize, models.ModeNormalize), http.StatusBadRequest)
		return
	}

	reset := h.Session.SetSourceSystem(cfg.SourceSystem)
	h.Session.SetOptions(cfg.Options)
	if reset {
		log.Printf("[Session] Source system changed, definitions re-seeded")
	}

	writeJSON(w, map[string]interface{}{
		"status":            "configured",
		"definitions_reset": reset,
	})
}

// ============================================================================
// Upload
// ============================================================================

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	reports := []models.Report{}
	warnings := []string{}

	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", header.Filename, err))
			continue
		}

		switch strings.ToLower(filepath.Ext(header.Filename)) {
		case ".csv":
			report, err := ingest.ReadCSV(file, header.Filename)
			if err != nil {
				warnings = append(warnings, err.Error())
			} else {
				reports = append(reports, *report)
			}
		case ".xlsx", ".xlsm":
			sheetReports, sheetWarnings, err := ingest.ReadWorkbook(file, header.Filename)
			warnings = append(warnings, sheetWarnings...)
			if err != nil {
				warnings = append(warnings, err.Error())
			} else {
				reports = append(reports, sheetReports...)
			}
		default:
			warnings = append(warnings, fmt.Sprintf("%s: unsupported file type", header.Filename))
		}
		file.Close()
	}

	if len(reports) == 0 {
		http.Error(w, "No readable reports in upload: "+strings.Join(warnings, "; "), http.StatusBadRequest)
		return
	}

	h.Session.AddReports(reports)
	h.Session.AddWarnings(warnings)
	for _, warning := range warnings {
		log.Printf("[Upload] %s", warning)
	}

	writeJSON(w, models.UploadResponse{
		Message:  fmt.Sprintf("Ingested %d report(s)", len(reports)),
		Reports:  reports,
		Warnings: warnings,
	})
}

func (h *Handler) ClearUploads(w http.ResponseWriter, r *http.Request) {
	h.Session.ClearReports()
	writeJSON(w, map[string]string{"status": "cleared"})
}

// ============================================================================
// Editable tables
// ============================================================================

func (h *Handler) GetSynonyms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, models.SynonymTable{Rules: h.Session.SynonymRules()})
}

func (h *Handler) PutSynonyms(w http.ResponseWriter, r *http.Request) {
	var table models.SynonymTable
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	h.Session.SetSynonymRules(table.Rules)
	writeJSON(w, map[string]interface{}{"status": "saved", "rules": len(table.Rules)})
}

func (h *Handler) GetDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, models.DefinitionTable{Entries: h.Session.Definitions()})
}

func (h *Handler) PutDefinitions(w http.ResponseWriter, r *http.Request) {
	var table models.DefinitionTable
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	h.Session.SetDefinitions(table.Entries)
	writeJSON(w, map[string]interface{}{"status": "saved", "entries": len(table.Entries)})
}

// ============================================================================
// Analyze / Results
// ============================================================================

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	result, err := h.AnalysisService.Run()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("[Analyze] %d field instance(s) across %d report(s), %d rule(s) skipped",
		result.Metrics.FieldInstances, result.Metrics.Reports, len(result.SkippedRules))
	writeJSON(w, result)
}

// resultTable serves one derived table from the last analysis run.
func (h *Handler) resultTable(pick func(*models.AnalysisResult) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := h.Session.Result()
		if result == nil {
			http.Error(w, "No analysis has been run yet", http.StatusNotFound)
			return
		}
		writeJSON(w, pick(result))
	}
}

// ============================================================================
// Export
// ============================================================================

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	result := h.Session.Result()
	if result == nil {
		http.Error(w, "No analysis has been run yet", http.StatusNotFound)
		return
	}

	writer := export.NewWriter()
	err := writer.Build(result, h.Session.SynonymRules(), h.Session.Definitions(), h.Session.Options().ExportIncludedOnly)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error building workbook: %v", err), http.StatusInternalServerError)
		return
	}

	fileName := export.ExportFileName(result.SourceSystem)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := writer.WriteTo(w); err != nil {
		log.Printf("[Export] Error streaming workbook: %v", err)
	}
}

// ============================================================================
// DB ingestion
// ============================================================================

func (h *Handler) ConnectDB(w http.ResponseWriter, r *http.Request) {
	var cfg ingest.DataSourceConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if cfg.Type != "postgres" {
		http.Error(w, "Only postgres is supported currently", http.StatusBadRequest)
		return
	}

	ds := &ingest.PostgresDataSource{}
	if err := ds.Connect(cfg); err != nil {
		http.Error(w, fmt.Sprintf("Failed to connect: %v", err), http.StatusInternalServerError)
		return
	}

	if h.CurrentDB != nil {
		h.CurrentDB.Close()
	}
	h.CurrentDB = ds

	writeJSON(w, map[string]string{"status": "connected"})
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	if h.CurrentDB == nil {
		http.Error(w, "No database connection", http.StatusBadRequest)
		return
	}

	tables, err := h.CurrentDB.ListTables()
	if err != nil {
		http.Error(w, fmt.Sprintf("Error listing tables: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{"tables": tables})
}

// IngestTable pulls a table's columns into the session as one report.
func (h *Handler) IngestTable(w http.ResponseWriter, r *http.Request) {
	if h.CurrentDB == nil {
		http.Error(w, "No database connection", http.StatusBadRequest)
		return
	}

	var req struct {
		TableName string `json:"table_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.TableName == "" {
		http.Error(w, "table_name is required", http.StatusBadRequest)
		return
	}

	report, err := h.CurrentDB.TableReport(req.TableName, h.Config.DBSampleLimit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error reading table: %v", err), http.StatusBadRequest)
		return
	}

	h.Session.AddReports([]models.Report{*report})
	writeJSON(w, models.UploadResponse{
		Message: fmt.Sprintf("Table '%s' ingested as report", req.TableName),
		Reports: []models.Report{*report},
	})
}

// ============================================================================
// Helpers
// ============================================================================

// confidenceRows projects the field inventory down to the columns the
// confidence view shows.
func confidenceRows(fields []models.FieldOccurrence) []models.ConfidenceRow {
	rows := make([]models.ConfidenceRow, len(fields))
	for i, f := range fields {
		rows[i] = models.ConfidenceRow{
			ReportName:        f.ReportName,
			ColumnOriginal:    f.ColumnOriginal,
			ColumnNormalized:  f.ColumnNormalized,
			ColumnBase:        f.ColumnBase,
			ColumnHomogenized: f.ColumnHomogenized,
			Confidence:        f.Confidence,
		}
	}
	return rows
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
