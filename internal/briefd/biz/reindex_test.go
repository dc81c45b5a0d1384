package biz

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrust-io/briefd/internal/model"
)

func TestReindexInvalidatesAskCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewAskCache(client, time.Minute)

	ctx := context.Background()
	key := cache.Key("project", "p1", "what changed?", nil)
	cache.Set(ctx, key, &model.AskResult{Response: "stale answer", Citations: []model.Citation{}})
	require.NotNil(t, cache.Get(ctx, key))

	embedder := &fakeEmbedder{}
	vectors := &fakeVectors{}
	ix := NewIndexer(embedder, newWordCodec(), vectors, cache)

	err := ix.Reindex(ctx, &model.Brief{
		ID:        "b1",
		ProjectID: "p1",
		UserID:    "u1",
		Summary:   "## Updated",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, vectors.upsertCount())

	// The cached answer may quote replaced content, so it is gone.
	assert.Nil(t, cache.Get(ctx, key))
}

func TestReindexNilCache(t *testing.T) {
	embedder := &fakeEmbedder{}
	vectors := &fakeVectors{}
	ix := NewIndexer(embedder, newWordCodec(), vectors, nil)

	err := ix.Reindex(context.Background(), &model.Brief{ID: "b1", Summary: "## Doc"})
	require.NoError(t, err)
	assert.Equal(t, 1, vectors.upsertCount())
}
