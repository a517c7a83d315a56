package memory

import (
	"context"
	"time"

	"ai-docchat/internal/entity"
	"ai-docchat/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

const activeDocumentKey = "active_document"

type DocumentRepository struct {
	cache *cache.Cache
}

var _ contract.DocumentRepository = &DocumentRepository{}

// NewDocumentRepository keeps the active document in process memory.
// A ttl of zero keeps it until replaced.
func NewDocumentRepository(ttl time.Duration) *DocumentRepository {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &DocumentRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *DocumentRepository) SaveActive(ctx context.Context, doc *entity.Document) error {
	stored := *doc
	stored.Chunks = append([]string(nil), doc.Chunks...)
	r.cache.Set(activeDocumentKey, &stored, cache.DefaultExpiration)
	return nil
}

func (r *DocumentRepository) FindActive(ctx context.Context) (*entity.Document, error) {
	x, found := r.cache.Get(activeDocumentKey)
	if !found {
		return nil, contract.ErrDocumentNotFound
	}
	doc := *x.(*entity.Document)
	return &doc, nil
}

func (r *DocumentRepository) DeleteActive(ctx context.Context) error {
	r.cache.Delete(activeDocumentKey)
	return nil
}
