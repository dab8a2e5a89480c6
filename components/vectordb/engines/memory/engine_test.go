package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/qa-agents/components/embedder"
	"github.com/bububa/qa-agents/components/vectordb"
)

func seed(t *testing.T, e vectordb.Engine) {
	t.Helper()
	records := vectordb.RecordsFromEmbeddings([]embedder.Embedding{
		{Object: "north", Embedding: []float32{0, 1}, Meta: map[string]string{"lang": "en"}},
		{Object: "east", Embedding: []float32{1, 0}, Meta: map[string]string{"lang": "en"}},
		{Object: "north east", Embedding: []float32{1, 1}, Meta: map[string]string{"lang": "zh"}},
		{Object: "south", Embedding: []float32{0, -3}, Meta: map[string]string{"lang": "en"}},
	})
	require.NoError(t, e.Insert(context.Background(), "docs", records...))
}

func TestSearchOrdersBySimilarity(t *testing.T) {
	ctx := context.Background()
	e := New(vectordb.WithTopK(3))
	seed(t, e)

	n, err := e.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	records, err := e.Search(ctx, []float32{0, 2}, vectordb.SearchWithCollection("docs"))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "north", records[0].Embedding.Object)
	assert.InDelta(t, 1, records[0].Score, 1e-6)
	assert.Equal(t, "north east", records[1].Embedding.Object)
	assert.Equal(t, "east", records[2].Embedding.Object)

	records, err = e.Search(ctx, []float32{0, 2}, vectordb.SearchWithCollection("docs"), vectordb.SearchWithTopK(4))
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "south", records[3].Embedding.Object)
	assert.InDelta(t, -1, records[3].Score, 1e-6)

	records, err = e.Search(ctx, []float32{0, 2}, vectordb.SearchWithCollection("docs"), vectordb.SearchWithTopK(4), vectordb.SearchWithMinScore(0))
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSearchFilters(t *testing.T) {
	ctx := context.Background()
	e := New()
	seed(t, e)

	records, err := e.Search(ctx, []float32{0, 1}, vectordb.SearchWithCollection("docs"), vectordb.SearchWithMeta(map[string]string{"lang": "zh"}))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "north east", records[0].Embedding.Object)

	records, err = e.Search(ctx, []float32{0, 1}, vectordb.SearchWithCollection("docs"), vectordb.SearchWithExclude("north"))
	require.NoError(t, err)
	for _, r := range records {
		assert.NotContains(t, r.Embedding.Object, "north")
	}

	records, err = e.Search(ctx, []float32{0, 1}, vectordb.SearchWithCollection("docs"), vectordb.SearchWithMinScore(0.5))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSearchEmptyCollection(t *testing.T) {
	e := New()
	records, err := e.Search(context.Background(), []float32{1, 0}, vectordb.SearchWithCollection("nothing"))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.True(t, e.HasCollection("nothing"))
	e.DropCollection("nothing")
	assert.False(t, e.HasCollection("nothing"))
}
