package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"fieldscope/internal/config"
	"fieldscope/internal/models"
	"fieldscope/internal/rationalize"
	"fieldscope/internal/service"
	"fieldscope/internal/state"
)

func newTestServer() (*httptest.Server, *state.Session) {
	session := state.NewSession(config.SeedSynonymRules(), nil)
	lookup := map[string]string{"policy_number": "Policy id."}
	analysisService := service.NewAnalysisService(session, lookup, rationalize.DefaultThresholds())
	handler := NewHandler(session, analysisService, config.Default())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return httptest.NewServer(r), session
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func uploadCSV(t *testing.T, url, fileName, content string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	mw.Close()

	resp, err := http.Post(url+"/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST /upload: %v", err)
	}
	return resp
}

func TestAnalyzeRequiresConfiguration(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/analyze", map[string]string{})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("analyze without config: status %d, want 400", resp.StatusCode)
	}
}

func TestConfigureSessionValidation(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/session", models.SessionConfig{SourceSystem: "   "})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("blank source system: status %d, want 400", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/session", models.SessionConfig{
		SourceSystem: "Legacy A",
		Options:      models.SessionOptions{Mode: "bogus"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus mode: status %d, want 400", resp.StatusCode)
	}
}

func TestUploadRejectsUnreadable(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer()
	defer server.Close()

	resp := uploadCSV(t, server.URL, "notes.txt", "not a report")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unsupported upload: status %d, want 400", resp.StatusCode)
	}
}

func TestFullSessionFlow(t *testing.T) {
	t.Parallel()

	server, session := newTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/session", models.SessionConfig{SourceSystem: "Legacy A"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("configure: status %d", resp.StatusCode)
	}

	resp = uploadCSV(t, server.URL, "claims.csv", "Pol No,Region Code\n1,North\n")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload: status %d", resp.StatusCode)
	}
	if got := len(session.Reports()); got != 1 {
		t.Fatalf("session holds %d reports, want 1", got)
	}

	resp = postJSON(t, server.URL+"/analyze", map[string]string{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze: status %d", resp.StatusCode)
	}
	var result models.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding analyze response: %v", err)
	}
	resp.Body.Close()
	if result.Metrics.FieldInstances != 2 {
		t.Errorf("field instances = %d, want 2", result.Metrics.FieldInstances)
	}

	confResp, err := http.Get(server.URL + "/results/confidence")
	if err != nil {
		t.Fatalf("GET confidence: %v", err)
	}
	if confResp.StatusCode != http.StatusOK {
		t.Fatalf("GET /results/confidence = %d, want 200", confResp.StatusCode)
	}
	var confRows []models.ConfidenceRow
	if err := json.NewDecoder(confResp.Body).Decode(&confRows); err != nil {
		t.Fatalf("decoding confidence: %v", err)
	}
	confResp.Body.Close()
	if len(confRows) != 2 {
		t.Fatalf("confidence rows = %d, want 2", len(confRows))
	}
	if confRows[0].ColumnOriginal != "Pol No" || confRows[0].Confidence != "Medium" {
		t.Errorf("unexpected confidence row: %+v", confRows[0])
	}
	if confRows[1].ColumnHomogenized != "region_code" || confRows[1].Confidence != "Low" {
		t.Errorf("unexpected confidence row: %+v", confRows[1])
	}

	getResp, err := http.Get(server.URL + "/results/rationalization")
	if err != nil {
		t.Fatalf("GET rationalization: %v", err)
	}
	var records []models.RationalizationRecord
	if err := json.NewDecoder(getResp.Body).Decode(&records); err != nil {
		t.Fatalf("decoding rationalization: %v", err)
	}
	getResp.Body.Close()
	if len(records) != 1 || records[0].Recommendation != models.RecommendKeep {
		t.Errorf("unexpected rationalization: %+v", records)
	}

	exportResp, err := http.Get(server.URL + "/export")
	if err != nil {
		t.Fatalf("GET export: %v", err)
	}
	defer exportResp.Body.Close()
	if exportResp.StatusCode != http.StatusOK {
		t.Errorf("export: status %d", exportResp.StatusCode)
	}
	if ct := exportResp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("export content type = %q", ct)
	}
	if cd := exportResp.Header.Get("Content-Disposition"); !strings.Contains(cd, "Legacy_A") {
		t.Errorf("export disposition = %q", cd)
	}
}

func TestUploadWarningsSurfaceInResult(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/session", models.SessionConfig{SourceSystem: "Legacy B"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("configure: status %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", "claims.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("Pol No\n1\n"))
	part, err = mw.CreateFormFile("files", "notes.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("not a report"))
	mw.Close()

	upResp, err := http.Post(server.URL+"/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST /upload: %v", err)
	}
	upResp.Body.Close()
	if upResp.StatusCode != http.StatusOK {
		t.Fatalf("upload: status %d", upResp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/analyze", map[string]string{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze: status %d", resp.StatusCode)
	}
	var result models.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding analyze response: %v", err)
	}
	resp.Body.Close()

	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "notes.txt") {
		t.Errorf("result warnings = %+v, want the unreadable file reported", result.Warnings)
	}
}

func TestResultsBeforeAnalyze(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/results/fields")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("results before analyze: status %d, want 404", resp.StatusCode)
	}
}

func TestSynonymTableRoundTrip(t *testing.T) {
	t.Parallel()

	server, session := newTestServer()
	defer server.Close()

	table := models.SynonymTable{Rules: []models.SynonymRule{
		{Enabled: "Y", Pattern: "^a$", Replacement: "b"},
		{Enabled: "N", Pattern: "^c$", Replacement: "d"},
	}}
	data, _ := json.Marshal(table)

	req, err := http.NewRequest(http.MethodPut, server.URL+"/synonyms", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /synonyms: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT /synonyms: status %d", resp.StatusCode)
	}

	rules := session.SynonymRules()
	if len(rules) != 2 || rules[0].Pattern != "^a$" || rules[1].Enabled != "N" {
		t.Errorf("rule table not replaced in order: %+v", rules)
	}
}
