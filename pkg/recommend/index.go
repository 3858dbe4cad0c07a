package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"wtf2eat-be/internal/entity"
	"wtf2eat-be/pkg/embedding"
)

// Index is a per-request cosine index over candidate review text keyed by
// place id. It lives only as long as the request that built it.
type Index struct {
	embedder embedding.EmbeddingProvider
	docs     []indexedDoc
}

type indexedDoc struct {
	id  string
	vec []float32
}

type Hit struct {
	Id    string
	Score float64
}

// ReviewText is the document indexed for a candidate.
func ReviewText(r entity.Restaurant) string {
	return strings.Join(r.Reviews, "\n")
}

func BuildIndex(ctx context.Context, embedder embedding.EmbeddingProvider, candidates []entity.Restaurant) (*Index, error) {
	ix := &Index{
		embedder: embedder,
		docs:     make([]indexedDoc, 0, len(candidates)),
	}
	for _, c := range candidates {
		res, err := embedder.Generate(ctx, ReviewText(c), embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("embed reviews of %s: %w", c.PlaceId, err)
		}
		ix.docs = append(ix.docs, indexedDoc{id: c.PlaceId, vec: res.Embedding.Values})
	}
	return ix, nil
}

func (ix *Index) Len() int {
	return len(ix.docs)
}

// Search embeds query and returns up to limit hits, most similar first.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if len(ix.docs) == 0 {
		return nil, nil
	}

	res, err := ix.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits := make([]Hit, len(ix.docs))
	for i, d := range ix.docs {
		hits[i] = Hit{Id: d.id, Score: embedding.CosineSimilarity(res.Embedding.Values, d.vec)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
