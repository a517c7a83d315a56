package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Gateway is the contract of the remote document/inference backend.
// The backend holds the document; Ask carries no document or session identifier.
type Gateway interface {
	// Upload sends a document to the backend, replacing whatever it held before.
	Upload(ctx context.Context, doc *Document) (*UploadAck, error)

	// Ask sends a question about the uploaded document and returns the answer text.
	Ask(ctx context.Context, question string) (*Answer, error)
}

// Document is a file ready to be uploaded.
type Document struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadAck is the backend acknowledgment. Only its presence matters to the client.
type UploadAck struct {
	Message  string `json:"message,omitempty"`
	Filename string `json:"filename,omitempty"`
	Raw      []byte `json:"-"`
}

type Answer struct {
	Text string
}

var (
	ErrUnsupportedDocument = errors.New("gateway: only PDF and TXT documents are supported")
	ErrNoDocument          = errors.New("gateway: no document to upload")
	ErrMalformedAnswer     = errors.New("gateway: response has no answer")
)

// SupportedTypes maps accepted file extensions to the content type sent with the upload.
var SupportedTypes = map[string]string{
	".pdf": "application/pdf",
	".txt": "text/plain",
}

// NewDocument wraps in-memory content. The extension of name decides the content type.
func NewDocument(name string, data []byte) (*Document, error) {
	contentType, ok := SupportedTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, name)
	}
	return &Document{
		Name:        filepath.Base(name),
		ContentType: contentType,
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	}, nil
}

// OpenDocument reads a PDF or TXT file from disk.
func OpenDocument(path string) (*Document, error) {
	if _, ok := SupportedTypes[strings.ToLower(filepath.Ext(path))]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return NewDocument(path, data)
}
