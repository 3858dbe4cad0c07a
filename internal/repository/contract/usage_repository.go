package contract

import (
	"context"

	"wtf2eat-be/internal/entity"
)

type UsageRepository interface {
	// Record adds one run and its token count to the user's totals.
	Record(ctx context.Context, userId string, tokens int64) error
	Get(ctx context.Context, userId string) (*entity.Usage, error)
}
