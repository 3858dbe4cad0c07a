package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"wtf2eat-be/internal/entity"
	"wtf2eat-be/internal/repository/contract"
	"wtf2eat-be/pkg/embedding"
)

// StoreRepository keeps store items in process memory. Used when no database
// is configured and in tests.
type StoreRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]*entity.StoreItem
}

var _ contract.StoreRepository = &StoreRepository{}

func NewStoreRepository() *StoreRepository {
	return &StoreRepository{
		items: make(map[string]map[string]*entity.StoreItem),
	}
}

func (r *StoreRepository) Put(ctx context.Context, item *entity.StoreItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ns, ok := r.items[item.Namespace]
	if !ok {
		ns = make(map[string]*entity.StoreItem)
		r.items[item.Namespace] = ns
	}

	now := time.Now()
	stored := *item
	if prev, ok := ns[item.Key]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	ns[item.Key] = &stored

	*item = stored
	return nil
}

func (r *StoreRepository) Get(ctx context.Context, namespace, key string) (*entity.StoreItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if item, ok := r.items[namespace][key]; ok {
		c := *item
		return &c, nil
	}
	return nil, nil
}

func (r *StoreRepository) Delete(ctx context.Context, namespace, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items[namespace], key)
	return nil
}

func (r *StoreRepository) List(ctx context.Context, namespace string, limit int) ([]*entity.StoreItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.StoreItem, 0, len(r.items[namespace]))
	for _, item := range r.items[namespace] {
		c := *item
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Key < out[j].Key
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *StoreRepository) SearchSimilar(ctx context.Context, namespace string, query []float32, limit int) ([]*contract.ScoredStoreItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var scored []*contract.ScoredStoreItem
	for _, item := range r.items[namespace] {
		if len(item.EmbeddingValue) == 0 {
			continue
		}
		c := *item
		scored = append(scored, &contract.ScoredStoreItem{
			Item:       &c,
			Similarity: embedding.CosineSimilarity(query, item.EmbeddingValue),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Similarity == scored[j].Similarity {
			return scored[i].Item.Key < scored[j].Item.Key
		}
		return scored[i].Similarity > scored[j].Similarity
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}
