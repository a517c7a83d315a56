package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-docchat/internal/bootstrap"
	"ai-docchat/internal/config"
	"ai-docchat/internal/pkg/logger"
	"ai-docchat/internal/pkg/serverutils"
	"ai-docchat/internal/session"
	"ai-docchat/pkg/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(prefix string) *config.Config {
	env := "development"
	if prefix != "" {
		env = config.EnvProduction
	}
	return &config.Config{
		App: config.AppConfig{Environment: env, LogFilePath: "unused.log"},
		Server: config.ServerConfig{
			Port:               "0",
			APIPrefix:          prefix,
			StaticDir:          "does-not-exist",
			CorsAllowedOrigins: "*",
			BodyLimitMB:        1,
			DocumentStore:      "memory",
		},
		Ai: config.AIConfig{LLMProvider: "mock", TopChunks: 2},
	}
}

func newTestServer(t *testing.T, prefix string) *Server {
	t.Helper()
	cfg := testConfig(prefix)
	container, err := bootstrap.NewContainer(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })
	return New(cfg, container, logger.NewNopLogger())
}

func uploadRequest(t *testing.T, path, filename, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, _ = part.Write([]byte(content))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func askRequest(path, question string) *http.Request {
	payload, _ := json.Marshal(map[string]string{"question": question})
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestUploadAndAsk(t *testing.T) {
	app := newTestServer(t, "").GetApp()

	resp, err := app.Test(uploadRequest(t, "/upload", "notes.txt", "The fox is quick and brown."), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	up := decode[map[string]interface{}](t, resp)
	assert.Equal(t, "notes.txt", up["filename"])
	assert.NotEmpty(t, up["message"])

	resp, err = app.Test(askRequest("/ask", "Is the fox quick?"), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ans := decode[map[string]interface{}](t, resp)
	assert.Equal(t, "From the document: The fox is quick and brown.", ans["answer"])
}

func TestErrorsUseEnvelope(t *testing.T) {
	app := newTestServer(t, "").GetApp()

	tests := []struct {
		name        string
		req         *http.Request
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "ask without document",
			req:         askRequest("/ask", "hello?"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "No document uploaded. Please upload a document first.",
		},
		{
			name:        "ask without question",
			req:         askRequest("/ask", ""),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "question is required",
		},
		{
			name:        "unsupported file",
			req:         uploadRequest(t, "/upload", "slides.pptx", "x"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Only PDF and TXT files are supported",
		},
		{
			name:        "missing file field",
			req:         askRequest("/upload", "not multipart"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "file is required",
		},
		{
			name:       "unknown route",
			req:        httptest.NewRequest(http.MethodGet, "/nope", nil),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(tt.req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decode[serverutils.BaseResponse[any]](t, resp)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantStatus, body.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Message)
			}
		})
	}
}

func TestProductionPrefix(t *testing.T) {
	app := newTestServer(t, "/api").GetApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(askRequest("/ask", "q"), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	app := newTestServer(t, "").GetApp()

	req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

// The chat client's controller driven through the real HTTP gateway against this backend.
func TestClientSessionAgainstBackend(t *testing.T) {
	srv := newTestServer(t, "")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.GetApp().Listener(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	gw, err := gateway.NewHTTPGateway("http://" + ln.Addr().String())
	require.NoError(t, err)
	ctrl := session.NewController(gw)
	ctx := context.Background()

	bad, err := gateway.NewDocument("empty.txt", []byte("   "))
	require.NoError(t, err)
	require.True(t, ctrl.SubmitUpload(ctx, bad))
	assert.False(t, ctrl.FileUploaded())
	assert.Equal(t, "Error uploading file: No text could be extracted from the document", ctrl.Messages()[0].Content)

	doc, err := gateway.NewDocument("notes.txt", []byte("Biscuit is the office cat."))
	require.NoError(t, err)
	require.True(t, ctrl.SubmitUpload(ctx, doc))
	require.True(t, ctrl.FileUploaded())

	require.True(t, ctrl.SubmitQuestion(ctx, "Who is Biscuit?"))
	msgs := ctrl.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Who is Biscuit?", msgs[1].Content)
	assert.True(t, strings.Contains(msgs[2].Content, "office cat"))
}
