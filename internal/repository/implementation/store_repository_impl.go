package implementation

import (
	"context"
	"errors"

	"wtf2eat-be/internal/entity"
	"wtf2eat-be/internal/mapper"
	"wtf2eat-be/internal/model"
	"wtf2eat-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoreRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StoreItemMapper
}

func NewStoreRepository(db *gorm.DB) contract.StoreRepository {
	return &StoreRepositoryImpl{
		db:     db,
		mapper: mapper.NewStoreItemMapper(),
	}
}

func (r *StoreRepositoryImpl) Put(ctx context.Context, item *entity.StoreItem) error {
	m := r.mapper.ToModel(item)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "text", "embedding_value", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *StoreRepositoryImpl) Get(ctx context.Context, namespace, key string) (*entity.StoreItem, error) {
	var m model.StoreItem
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *StoreRepositoryImpl) Delete(ctx context.Context, namespace, key string) error {
	return r.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		Delete(&model.StoreItem{}).Error
}

func (r *StoreRepositoryImpl) List(ctx context.Context, namespace string, limit int) ([]*entity.StoreItem, error) {
	var models []*model.StoreItem
	query := r.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// SearchSimilar orders by pgvector cosine distance; similarity = 1 - distance.
func (r *StoreRepositoryImpl) SearchSimilar(ctx context.Context, namespace string, embedding []float32, limit int) ([]*contract.ScoredStoreItem, error) {
	if limit <= 0 {
		limit = 10
	}

	type result struct {
		model.StoreItem
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("store_items").
		Select("store_items.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("namespace = ?", namespace).
		Where("embedding_value IS NOT NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredStoreItem, len(results))
	for i := range results {
		scored[i] = &contract.ScoredStoreItem{
			Item:       r.mapper.ToEntity(&results[i].StoreItem),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}
