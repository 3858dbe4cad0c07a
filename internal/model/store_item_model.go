package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type StoreItem struct {
	Namespace      string           `gorm:"type:text;primaryKey"`
	Key            string           `gorm:"type:text;primaryKey"`
	Value          datatypes.JSON   `gorm:"type:jsonb;not null"`
	Text           string           `gorm:"type:text"`
	EmbeddingValue *pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004
	CreatedAt      time.Time        `gorm:"autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime"`
}

func (StoreItem) TableName() string {
	return "store_items"
}

// StoreItemIndexes are created after AutoMigrate. The HNSW index serves
// cosine similarity search over embedding_value.
var StoreItemIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_store_items_namespace_created ON store_items (namespace, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_store_items_embedding ON store_items USING hnsw (embedding_value vector_cosine_ops)`,
}
