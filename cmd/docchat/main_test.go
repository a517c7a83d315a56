package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ai-docchat/internal/pkg/logger"
	"ai-docchat/internal/session"
	"ai-docchat/pkg/gateway"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func newBackend(t *testing.T, uploadStatus int, answer interface{}) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(uploadStatus)
		if uploadStatus >= 400 {
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Only PDF and TXT files are supported"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	mux.HandleFunc("/ask", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"answer": answer})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("The launch is on Friday."), 0o644))
	return path
}

func newController(t *testing.T, baseURL string) *session.Controller {
	t.Helper()
	gw, err := gateway.NewHTTPGateway(baseURL)
	require.NoError(t, err)
	return session.NewController(gw)
}

func TestRunAskPrintsTranscript(t *testing.T) {
	srv := newBackend(t, http.StatusOK, "Friday.")
	var out bytes.Buffer

	err := runAsk(context.Background(), newController(t, srv.URL), writeDoc(t), []string{"When is the launch?", "  ", "Where?"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), `Assistant: File "notes.txt" uploaded successfully!`)
	assert.Contains(t, out.String(), "You: When is the launch?")
	assert.Contains(t, out.String(), "Assistant: Friday.")
	assert.Contains(t, out.String(), "You: Where?")
	assert.Equal(t, 2, strings.Count(out.String(), "You: "), "blank questions are skipped")
}

func TestRunAskUploadFailure(t *testing.T) {
	srv := newBackend(t, http.StatusBadRequest, "unused")
	var out bytes.Buffer

	err := runAsk(context.Background(), newController(t, srv.URL), writeDoc(t), []string{"anything"}, &out)
	assert.ErrorIs(t, err, errUploadFailed)
	assert.Contains(t, out.String(), "Error uploading file: Only PDF and TXT files are supported")
}

func TestRunAskMalformedAnswer(t *testing.T) {
	srv := newBackend(t, http.StatusOK, nil)
	var out bytes.Buffer

	err := runAsk(context.Background(), newController(t, srv.URL), writeDoc(t), []string{"When?", "Why?"}, &out)
	assert.ErrorIs(t, err, errQuestionFailed)
	assert.Contains(t, out.String(), session.AskFallbackMessage)
	assert.NotContains(t, out.String(), "Why?", "stops at the first failure")
}

func TestRunAskMissingFile(t *testing.T) {
	srv := newBackend(t, http.StatusOK, "x")

	err := runAsk(context.Background(), newController(t, srv.URL), filepath.Join(t.TempDir(), "nope.pdf"), []string{"q"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestPrintLogs(t *testing.T) {
	var out bytes.Buffer
	printLogs(&out, nil)
	assert.Equal(t, "No log entries.\n", out.String())

	out.Reset()
	printLogs(&out, []logger.LogEntry{{
		Timestamp: "2026-01-02T03:04:05Z",
		Level:     "WARN",
		Module:    "SESSION",
		Message:   "Upload failed",
		Details:   map[string]interface{}{"file": "a.txt", "error": "boom"},
	}})
	assert.Equal(t, "WARN  2026-01-02T03:04:05Z [SESSION] Upload failed error=boom file=a.txt\n", out.String())
}
