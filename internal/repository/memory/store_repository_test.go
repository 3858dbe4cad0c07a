package memory

import (
	"context"
	"encoding/json"
	"testing"

	"wtf2eat-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRepository_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository()

	item := &entity.StoreItem{Namespace: "restaurants", Key: "p1", Value: json.RawMessage(`{"name":"A"}`)}
	require.NoError(t, repo.Put(ctx, item))
	assert.False(t, item.CreatedAt.IsZero())

	got, err := repo.Get(ctx, "restaurants", "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"name":"A"}`, string(got.Value))

	missing, err := repo.Get(ctx, "users/1", "p1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Delete(ctx, "restaurants", "p1"))
	got, err = repo.Get(ctx, "restaurants", "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreRepository_PutReplacesValue(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository()

	require.NoError(t, repo.Put(ctx, &entity.StoreItem{Namespace: "n", Key: "k", Value: json.RawMessage(`1`)}))
	require.NoError(t, repo.Put(ctx, &entity.StoreItem{Namespace: "n", Key: "k", Value: json.RawMessage(`2`)}))

	items, err := repo.List(ctx, "n", 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2", string(items[0].Value))
}

func TestStoreRepository_SearchSimilar(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository()

	require.NoError(t, repo.Put(ctx, &entity.StoreItem{Namespace: "users/1", Key: "a", EmbeddingValue: []float32{1, 0}}))
	require.NoError(t, repo.Put(ctx, &entity.StoreItem{Namespace: "users/1", Key: "b", EmbeddingValue: []float32{0, 1}}))
	require.NoError(t, repo.Put(ctx, &entity.StoreItem{Namespace: "users/1", Key: "c"}))
	require.NoError(t, repo.Put(ctx, &entity.StoreItem{Namespace: "users/2", Key: "d", EmbeddingValue: []float32{1, 0}}))

	res, err := repo.SearchSimilar(ctx, "users/1", []float32{1, 0.1}, 10)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].Item.Key)
	assert.Equal(t, "b", res[1].Item.Key)
	assert.Greater(t, res[0].Similarity, res[1].Similarity)

	res, err = repo.SearchSimilar(ctx, "users/1", []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}
