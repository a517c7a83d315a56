package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-docchat/internal/entity"
	"ai-docchat/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const defaultKey = "docchat:document:active"

// DocumentRepository stores the active document as JSON under a single key,
// so several backend replicas answer about the same document.
type DocumentRepository struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ contract.DocumentRepository = &DocumentRepository{}

type Option func(*DocumentRepository)

func WithKey(key string) Option {
	return func(r *DocumentRepository) {
		r.key = key
	}
}

// WithTTL expires the document after d. Zero means no expiry.
func WithTTL(d time.Duration) Option {
	return func(r *DocumentRepository) {
		r.ttl = d
	}
}

func NewDocumentRepository(client *redis.Client, opts ...Option) *DocumentRepository {
	r := &DocumentRepository{client: client, key: defaultKey}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewClient parses a redis:// URL and checks the connection.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *DocumentRepository) SaveActive(ctx context.Context, doc *entity.Document) error {
	val, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return r.client.Set(ctx, r.key, val, r.ttl).Err()
}

func (r *DocumentRepository) FindActive(ctx context.Context) (*entity.Document, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, contract.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	var doc entity.Document
	if err := json.Unmarshal(val, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) DeleteActive(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

func (r *DocumentRepository) Close() error {
	return r.client.Close()
}
