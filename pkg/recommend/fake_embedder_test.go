package recommend

import (
	"context"
	"strings"

	"wtf2eat-be/pkg/embedding"
)

// wordEmbedder embeds text as presence counts over a tiny vocabulary so that
// similarities in tests are exact.
type wordEmbedder struct {
	calls int
}

var vocabulary = []string{"thai", "spicy", "burger", "pizza", "quiet", "sushi"}

func (w *wordEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	w.calls++
	lower := strings.ToLower(text)
	vec := make([]float32, len(vocabulary))
	for i, word := range vocabulary {
		if strings.Contains(lower, word) {
			vec[i] = 1
		}
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: vec}}, nil
}
