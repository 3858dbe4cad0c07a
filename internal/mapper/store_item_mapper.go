package mapper

import (
	"encoding/json"

	"wtf2eat-be/internal/entity"
	"wtf2eat-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type StoreItemMapper struct{}

func NewStoreItemMapper() *StoreItemMapper {
	return &StoreItemMapper{}
}

func (m *StoreItemMapper) ToEntity(e *model.StoreItem) *entity.StoreItem {
	if e == nil {
		return nil
	}

	var embedding []float32
	if e.EmbeddingValue != nil {
		embedding = e.EmbeddingValue.Slice()
	}

	return &entity.StoreItem{
		Namespace:      e.Namespace,
		Key:            e.Key,
		Value:          json.RawMessage(e.Value),
		Text:           e.Text,
		EmbeddingValue: embedding,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (m *StoreItemMapper) ToModel(e *entity.StoreItem) *model.StoreItem {
	if e == nil {
		return nil
	}

	var embedding *pgvector.Vector
	if len(e.EmbeddingValue) > 0 {
		v := pgvector.NewVector(e.EmbeddingValue)
		embedding = &v
	}

	return &model.StoreItem{
		Namespace:      e.Namespace,
		Key:            e.Key,
		Value:          datatypes.JSON(e.Value),
		Text:           e.Text,
		EmbeddingValue: embedding,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (m *StoreItemMapper) ToEntities(items []*model.StoreItem) []*entity.StoreItem {
	entities := make([]*entity.StoreItem, len(items))
	for i, e := range items {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
