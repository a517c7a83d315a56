package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultUploadTimeout = 30 * time.Second
	DefaultAskTimeout    = 60 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20
)

var tracer = otel.Tracer("ai-docchat/pkg/gateway")

// HTTPGateway talks to the backend over its two JSON/multipart endpoints.
type HTTPGateway struct {
	baseURL       string
	client        *http.Client
	uploadTimeout time.Duration
	askTimeout    time.Duration
	progress      ProgressFunc
}

var _ Gateway = &HTTPGateway{}

type Option func(*HTTPGateway)

func WithHTTPClient(client *http.Client) Option {
	return func(g *HTTPGateway) {
		if client != nil {
			g.client = client
		}
	}
}

func WithUploadTimeout(d time.Duration) Option {
	return func(g *HTTPGateway) {
		g.uploadTimeout = d
	}
}

func WithAskTimeout(d time.Duration) Option {
	return func(g *HTTPGateway) {
		g.askTimeout = d
	}
}

// WithUploadProgress registers an observer for upload bytes. Diagnostics only.
func WithUploadProgress(fn ProgressFunc) Option {
	return func(g *HTTPGateway) {
		g.progress = fn
	}
}

// NewHTTPGateway builds a gateway rooted at baseURL, e.g. "http://localhost:8000"
// or "https://docs.example.com/api".
func NewHTTPGateway(baseURL string, opts ...Option) (*HTTPGateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute, got %q", baseURL)
	}

	g := &HTTPGateway{
		baseURL:       strings.TrimRight(baseURL, "/"),
		client:        &http.Client{},
		uploadTimeout: DefaultUploadTimeout,
		askTimeout:    DefaultAskTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *HTTPGateway) BaseURL() string {
	return g.baseURL
}

func (g *HTTPGateway) Upload(ctx context.Context, doc *Document) (*UploadAck, error) {
	const op = "upload"
	if doc == nil || doc.Body == nil {
		return nil, &Error{Op: op, Err: ErrNoDocument}
	}

	ctx, span := tracer.Start(ctx, "gateway.upload", trace.WithAttributes(
		attribute.String("document.name", doc.Name),
		attribute.Int64("document.size", doc.Size),
	))
	defer span.End()

	ctx, cancel := withTimeout(ctx, g.uploadTimeout)
	defer cancel()

	body, contentType, err := encodeMultipart(doc)
	if err != nil {
		return nil, g.fail(span, &Error{Op: op, Err: err})
	}

	total := int64(body.Len())
	var reader io.Reader = body
	if g.progress != nil {
		reader = &progressReader{r: body, total: total, fn: g.progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/upload", reader)
	if err != nil {
		return nil, g.fail(span, &Error{Op: op, Err: fmt.Errorf("create request: %w", err)})
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", contentType)

	raw, err := g.do(span, req, op)
	if err != nil {
		return nil, err
	}

	ack := &UploadAck{Filename: doc.Name, Raw: raw}
	// The acknowledgment shape is informational; an undecodable body is still a success.
	_ = json.Unmarshal(raw, ack)
	return ack, nil
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer *string `json:"answer"`
}

func (g *HTTPGateway) Ask(ctx context.Context, question string) (*Answer, error) {
	const op = "ask"

	ctx, span := tracer.Start(ctx, "gateway.ask", trace.WithAttributes(
		attribute.Int("question.length", len(question)),
	))
	defer span.End()

	ctx, cancel := withTimeout(ctx, g.askTimeout)
	defer cancel()

	payload, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return nil, g.fail(span, &Error{Op: op, Err: fmt.Errorf("marshal request: %w", err)})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/ask", bytes.NewReader(payload))
	if err != nil {
		return nil, g.fail(span, &Error{Op: op, Err: fmt.Errorf("create request: %w", err)})
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := g.do(span, req, op)
	if err != nil {
		return nil, err
	}

	var resp askResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, g.fail(span, &Error{Op: op, Err: fmt.Errorf("decode answer: %w", err)})
	}
	if resp.Answer == nil {
		return nil, g.fail(span, &Error{Op: op, Err: ErrMalformedAnswer})
	}

	return &Answer{Text: *resp.Answer}, nil
}

// do sends req and returns the body of a 2xx response.
func (g *HTTPGateway) do(span trace.Span, req *http.Request, op string) ([]byte, error) {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	span.SetAttributes(
		attribute.String("http.request_id", requestID),
		attribute.String("http.url", req.URL.String()),
	)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, g.fail(span, &Error{Op: op, Err: err})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, g.fail(span, &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, g.fail(span, &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    extractMessage(raw),
		})
	}
	return raw, nil
}

func (g *HTTPGateway) fail(span trace.Span, err *Error) *Error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Description())
	return err
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart buffers the document as a single "file" form part.
func encodeMultipart(doc *Document) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(doc.Name)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, doc.Body); err != nil {
		return nil, "", fmt.Errorf("copy document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
