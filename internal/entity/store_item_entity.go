package entity

import (
	"encoding/json"
	"time"
)

// StoreItem is one record of the namespaced key/value store. Text is the
// embedded representation used for similarity search and may be empty.
type StoreItem struct {
	Namespace      string
	Key            string
	Value          json.RawMessage
	Text           string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
