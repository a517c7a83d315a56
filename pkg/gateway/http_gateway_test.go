package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc, opts ...Option) *HTTPGateway {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	g, err := NewHTTPGateway(ts.URL, opts...)
	require.NoError(t, err)
	return g
}

func textDocument(t *testing.T, name, content string) *Document {
	t.Helper()
	doc, err := NewDocument(name, []byte(content))
	require.NoError(t, err)
	return doc
}

func TestUploadSendsMultipartFile(t *testing.T) {
	var (
		mu       sync.Mutex
		progress []Progress
	)

	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()

		content, _ := io.ReadAll(file)
		assert.Equal(t, "notes.txt", header.Filename)
		assert.Equal(t, "text/plain", header.Header.Get("Content-Type"))
		assert.Equal(t, "the quick brown fox", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"File processed","filename":"notes.txt"}`))
	}, WithUploadProgress(func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		progress = append(progress, p)
	}))

	ack, err := g.Upload(context.Background(), textDocument(t, "notes.txt", "the quick brown fox"))
	require.NoError(t, err)
	assert.Equal(t, "File processed", ack.Message)
	assert.Equal(t, "notes.txt", ack.Filename)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, progress)
	last := progress[len(progress)-1]
	assert.Equal(t, last.Total, last.Sent)
	assert.InDelta(t, 100.0, last.Percent(), 0.001)
}

func TestUploadAcceptsNonJSONAcknowledgment(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	ack, err := g.Upload(context.Background(), textDocument(t, "a.txt", "x"))
	require.NoError(t, err)
	assert.Equal(t, "a.txt", ack.Filename)
	assert.Equal(t, []byte("ok"), ack.Raw)
}

func TestUploadFailureMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantDesc    string
	}{
		{
			name:        "message field",
			status:      http.StatusBadRequest,
			body:        `{"message":"Only PDF and TXT files are supported"}`,
			wantMessage: "Only PDF and TXT files are supported",
			wantDesc:    "request failed with status code 400",
		},
		{
			name:        "fastapi detail",
			status:      http.StatusInternalServerError,
			body:        `{"detail":"Error processing file: boom"}`,
			wantMessage: "Error processing file: boom",
			wantDesc:    "request failed with status code 500",
		},
		{
			name:        "error field",
			status:      http.StatusUnprocessableEntity,
			body:        `{"error":"empty document"}`,
			wantMessage: "empty document",
			wantDesc:    "request failed with status code 422",
		},
		{
			name:     "non json body",
			status:   http.StatusBadGateway,
			body:     "bad gateway",
			wantDesc: "request failed with status code 502",
		},
		{
			name:     "detail is not a string",
			status:   http.StatusUnprocessableEntity,
			body:     `{"detail":[{"loc":["body","file"]}]}`,
			wantDesc: "request failed with status code 422",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := g.Upload(context.Background(), textDocument(t, "a.txt", "x"))
			require.Error(t, err)

			var gwErr *Error
			require.True(t, errors.As(err, &gwErr))
			assert.Equal(t, "upload", gwErr.Op)
			assert.Equal(t, tt.status, gwErr.StatusCode)
			assert.Equal(t, tt.wantMessage, gwErr.Message)
			assert.Equal(t, tt.wantDesc, gwErr.Description())
		})
	}
}

func TestUploadNilDocument(t *testing.T) {
	g, err := NewHTTPGateway("http://localhost:8000")
	require.NoError(t, err)

	_, err = g.Upload(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestAskReturnsAnswer(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ask", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, map[string]string{"question": "What is it about?"}, req)

		_, _ = w.Write([]byte(`{"answer":"It is about foxes."}`))
	})

	answer, err := g.Ask(context.Background(), "What is it about?")
	require.NoError(t, err)
	assert.Equal(t, "It is about foxes.", answer.Text)
}

func TestAskEmptyAnswerIsKept(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer":""}`))
	})

	answer, err := g.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "", answer.Text)
}

func TestAskMalformedBodies(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "missing answer", body: `{"result":"x"}`, wantErr: ErrMalformedAnswer},
		{name: "null answer", body: `{"answer":null}`, wantErr: ErrMalformedAnswer},
		{name: "not json", body: `<html></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := g.Ask(context.Background(), "q")
			require.Error(t, err)

			var gwErr *Error
			require.True(t, errors.As(err, &gwErr))
			assert.Equal(t, "ask", gwErr.Op)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAskTimeout(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithAskTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := g.Ask(context.Background(), "slow?")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.True(t, gwErr.Timeout())
	assert.Zero(t, gwErr.StatusCode)
}

func TestTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close()

	g, err := NewHTTPGateway(base)
	require.NoError(t, err)

	_, err = g.Ask(context.Background(), "anyone?")
	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Zero(t, gwErr.StatusCode)
	assert.Empty(t, gwErr.Message)
	assert.NotEmpty(t, gwErr.Description())
}

func TestNewHTTPGatewayRequiresAbsoluteURL(t *testing.T) {
	_, err := NewHTTPGateway("/api")
	assert.Error(t, err)

	g, err := NewHTTPGateway("https://docs.example.com/api/")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com/api", g.BaseURL())
}

func TestOpenDocument(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "Report.TXT")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))

	doc, err := OpenDocument(txt)
	require.NoError(t, err)
	assert.Equal(t, "Report.TXT", doc.Name)
	assert.Equal(t, "text/plain", doc.ContentType)
	assert.EqualValues(t, 5, doc.Size)

	_, err = OpenDocument(filepath.Join(dir, "slides.pptx"))
	assert.ErrorIs(t, err, ErrUnsupportedDocument)

	_, err = OpenDocument(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedDocument)
}
