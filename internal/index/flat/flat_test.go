package flat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
)

func buildIndex(t *testing.T, vectors [][]float32) *Index {
	t.Helper()
	idx, err := New(len(vectors[0]), vectors)
	require.NoError(t, err)
	return idx
}

func TestNewRejectsBadDimensions(t *testing.T) {
	_, err := New(0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = New(2, [][]float32{{1, 2}, {1, 2, 3}})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearchReturnsAscendingDistances(t *testing.T) {
	idx := buildIndex(t, [][]float32{
		{0, 0}, // ordinal 0
		{3, 0}, // ordinal 1
		{1, 0}, // ordinal 2
	})

	hits, err := idx.Search(context.Background(), []float32{0.5, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 0, hits[0].Ordinal)
	assert.Equal(t, 2, hits[1].Ordinal)
	assert.Equal(t, 1, hits[2].Ordinal)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
	}
	assert.InDelta(t, 0.25, hits[0].Distance, 1e-6)
}

func TestSearchBreaksTiesByOrdinal(t *testing.T) {
	// Two vectors equidistant from the query.
	idx := buildIndex(t, [][]float32{
		{1, 0},
		{-1, 0},
		{0, 0},
	})

	hits, err := idx.Search(context.Background(), []float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 2, hits[0].Ordinal)
	// Ordinals 0 and 1 are both at distance 1; lower ordinal wins.
	assert.Equal(t, 0, hits[1].Ordinal)
	assert.Equal(t, 1, hits[2].Ordinal)
}

func TestSearchClampsKToIndexSize(t *testing.T) {
	idx := buildIndex(t, [][]float32{{1, 1}, {2, 2}})

	hits, err := idx.Search(context.Background(), []float32{0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchRejectsInvalidK(t *testing.T) {
	idx := buildIndex(t, [][]float32{{1, 1}})

	_, err := idx.Search(context.Background(), []float32{0, 0}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = idx.Search(context.Background(), []float32{0, 0}, -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchRejectsDimensionMismatch(t *testing.T) {
	idx := buildIndex(t, [][]float32{{1, 1}})

	_, err := idx.Search(context.Background(), []float32{0, 0, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearchEmptyIndexReturnsNoHits(t *testing.T) {
	idx, err := New(3, nil)
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{0, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorAccessor(t *testing.T) {
	idx := buildIndex(t, [][]float32{{1, 2}, {3, 4}})

	vec, ok := idx.Vector(1)
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4}, vec)

	_, ok = idx.Vector(2)
	assert.False(t, ok)
}
