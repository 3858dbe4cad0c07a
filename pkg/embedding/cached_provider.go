package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedProvider memoizes embeddings so the same review text is not embedded
// again on every ranking pass.
type CachedProvider struct {
	next  EmbeddingProvider
	cache *cache.Cache
}

func NewCachedProvider(next EmbeddingProvider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	key := cacheKey(text, taskType)
	if x, found := p.cache.Get(key); found {
		return x.(*EmbeddingResponse), nil
	}

	res, err := p.next.Generate(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

func cacheKey(text, taskType string) string {
	sum := sha256.Sum256([]byte(taskType + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
