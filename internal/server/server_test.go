package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/pdfutils/internal/analysis"
	"github.com/docforge/pdfutils/internal/printing"
	"github.com/docforge/pdfutils/internal/registry"
	"github.com/docforge/pdfutils/internal/rename"
	"github.com/docforge/pdfutils/internal/rules"
)

type fixedSource struct{ text string }

func (f fixedSource) Text(_ context.Context, _ string) string { return f.text }

type okRunner struct{}

func (okRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
	return nil, nil, nil
}

func newTestServer(t *testing.T, text string) (*Server, *registry.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	a := analysis.NewAnalyzer(logger, rules.Defaults(), fixedSource{text: text}, analysis.Capabilities{})
	reg := registry.New()
	orch := rename.NewOrchestrator(logger, a, reg, nil)
	printer := printing.NewPrinter(logger, okRunner{})
	return NewServer(logger, orch, reg, nil, nil, nil, printer), reg
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, "")
	w := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyzeEndpoint(t *testing.T) {
	path := writePDF(t, t.TempDir(), "scan_001.pdf")
	s, _ := newTestServer(t, "Verizon bill for Mark, due 2024-03-03")

	w := doJSON(t, s, http.MethodPost, "/v1/analyze", gin.H{"path": path})
	require.Equal(t, http.StatusOK, w.Code)

	var res analysis.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Verizon-for_Mark-2024-03-03.pdf", res.SuggestedName)
	assert.Equal(t, []string{"2024-03-03"}, res.Dates)
}

func TestAnalyzeMissingFile(t *testing.T) {
	s, _ := newTestServer(t, "")
	w := doJSON(t, s, http.MethodPost, "/v1/analyze", gin.H{"path": "/nope/ghost.pdf"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyzeMissingBody(t *testing.T) {
	s, _ := newTestServer(t, "")
	w := doJSON(t, s, http.MethodPost, "/v1/analyze", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenameDryRunEndpoint(t *testing.T) {
	path := writePDF(t, t.TempDir(), "scan_001.pdf")
	s, _ := newTestServer(t, "Verizon bill for Mark, due 2024-03-03")

	w := doJSON(t, s, http.MethodPost, "/v1/rename", gin.H{"path": path, "dry_run": true})
	require.Equal(t, http.StatusOK, w.Code)

	var out rename.Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "DRY_RUN_END", string(out.State))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestRenameConflictEndpoint(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir, "scan_001.pdf")
	writePDF(t, dir, "taken.pdf")
	s, _ := newTestServer(t, "")

	w := doJSON(t, s, http.MethodPost, "/v1/rename", gin.H{"path": path, "new_name": "taken.pdf"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDocumentAndPageLifecycle(t *testing.T) {
	path := writePDF(t, t.TempDir(), "scan_001.pdf")
	s, reg := newTestServer(t, "")

	w := doJSON(t, s, http.MethodPost, "/v1/documents", gin.H{"path": path})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, reg.Documents(), 1)

	w = doJSON(t, s, http.MethodGet, "/v1/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "scan_001.pdf")

	// pages were registered manually since the stub extractor reports 0
	reg.Clear()
	reg.Load(path, 3)

	w = doJSON(t, s, http.MethodPost, "/v1/pages/move", gin.H{"from": 0, "to": 2})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodDelete, "/v1/pages/2", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, reg.Pages(), 2)

	w = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/v1/documents?path=%s", path), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, reg.Documents())
}

func TestPreviewEndpoints(t *testing.T) {
	path := writePDF(t, t.TempDir(), "scan_001.pdf")
	s, reg := newTestServer(t, "")
	reg.Load(path, 1)

	w := doJSON(t, s, http.MethodGet, "/v1/preview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "scan_001.pdf")

	w = doJSON(t, s, http.MethodPut, "/v1/preview", gin.H{"path": "/not/loaded.pdf"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsageWithoutStore(t *testing.T) {
	s, _ := newTestServer(t, "")
	w := doJSON(t, s, http.MethodGet, "/v1/usage", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExportWithoutExporter(t *testing.T) {
	s, _ := newTestServer(t, "")
	w := doJSON(t, s, http.MethodGet, "/v1/export", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPrintEndpoint(t *testing.T) {
	path := writePDF(t, t.TempDir(), "doc.pdf")
	s, _ := newTestServer(t, "")

	w := doJSON(t, s, http.MethodPost, "/v1/print", gin.H{"path": path})
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = doJSON(t, s, http.MethodPost, "/v1/print", gin.H{"path": "/nope/ghost.pdf"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
