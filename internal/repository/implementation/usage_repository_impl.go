package implementation

import (
	"context"
	"errors"
	"strconv"

	"wtf2eat-be/internal/entity"
	"wtf2eat-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const (
	usageKeyPrefix = "usage:"
	usageRuns      = "runs"
	usageTokens    = "tokens"
)

type usageRepository struct {
	rdb redis.UniversalClient
}

// NewUsageRepository keeps usage totals in a redis hash per user so every
// instance reports the same numbers.
func NewUsageRepository(rdb redis.UniversalClient) contract.UsageRepository {
	return &usageRepository{rdb: rdb}
}

func (r *usageRepository) Record(ctx context.Context, userId string, tokens int64) error {
	key := usageKeyPrefix + userId
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, usageRuns, 1)
		pipe.HIncrBy(ctx, key, usageTokens, tokens)
		return nil
	})
	return err
}

func (r *usageRepository) Get(ctx context.Context, userId string) (*entity.Usage, error) {
	values, err := r.rdb.HGetAll(ctx, usageKeyPrefix+userId).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	usage := &entity.Usage{UserId: userId}
	if v, ok := values[usageRuns]; ok {
		usage.Runs, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := values[usageTokens]; ok {
		usage.Tokens, _ = strconv.ParseInt(v, 10, 64)
	}
	return usage, nil
}
