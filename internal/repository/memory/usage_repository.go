package memory

import (
	"context"

	"wtf2eat-be/internal/entity"
	"wtf2eat-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// UsageRepository counts usage in process memory. Totals do not survive a
// restart and are not shared between instances.
type UsageRepository struct {
	cache *cache.Cache
}

var _ contract.UsageRepository = &UsageRepository{}

func NewUsageRepository() *UsageRepository {
	return &UsageRepository{cache: cache.New(cache.NoExpiration, 0)}
}

func (r *UsageRepository) Record(ctx context.Context, userId string, tokens int64) error {
	if err := r.incr(usageKey(userId, "runs"), 1); err != nil {
		return err
	}
	return r.incr(usageKey(userId, "tokens"), tokens)
}

func (r *UsageRepository) Get(ctx context.Context, userId string) (*entity.Usage, error) {
	return &entity.Usage{
		UserId: userId,
		Runs:   r.value(usageKey(userId, "runs")),
		Tokens: r.value(usageKey(userId, "tokens")),
	}, nil
}

func (r *UsageRepository) incr(key string, n int64) error {
	// Add is a no-op when the counter exists.
	_ = r.cache.Add(key, int64(0), cache.NoExpiration)
	_, err := r.cache.IncrementInt64(key, n)
	return err
}

func (r *UsageRepository) value(key string) int64 {
	if x, found := r.cache.Get(key); found {
		return x.(int64)
	}
	return 0
}

func usageKey(userId, field string) string {
	return userId + ":" + field
}
