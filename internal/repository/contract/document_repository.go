package contract

import (
	"context"
	"errors"

	"ai-docchat/internal/entity"
)

var ErrDocumentNotFound = errors.New("no active document")

// DocumentRepository holds at most one document. Saving replaces the previous one.
type DocumentRepository interface {
	SaveActive(ctx context.Context, doc *entity.Document) error
	FindActive(ctx context.Context) (*entity.Document, error)
	DeleteActive(ctx context.Context) error
}
