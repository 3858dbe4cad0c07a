package contract

import (
	"context"

	"wtf2eat-be/internal/entity"
)

// ScoredStoreItem wraps a StoreItem with its cosine similarity to the query.
type ScoredStoreItem struct {
	Item       *entity.StoreItem
	Similarity float64 // 1.0 = identical
}

type StoreRepository interface {
	// Put inserts or replaces the item at (namespace, key).
	Put(ctx context.Context, item *entity.StoreItem) error
	// Get returns nil, nil when the key is absent.
	Get(ctx context.Context, namespace, key string) (*entity.StoreItem, error)
	Delete(ctx context.Context, namespace, key string) error
	List(ctx context.Context, namespace string, limit int) ([]*entity.StoreItem, error)
	SearchSimilar(ctx context.Context, namespace string, embedding []float32, limit int) ([]*ScoredStoreItem, error)
}
