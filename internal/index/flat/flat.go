// Package flat implements an exact nearest-neighbour index: a flat
// array of vectors scanned with squared L2 distance, the same structure
// the catalogue sizes here need (tens of thousands of vectors search in
// well under a millisecond). The index is immutable once built and safe
// for concurrent searches.
package flat

import (
	"context"
	"fmt"
	"sort"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores vectors contiguously in ordinal order.
type Index struct {
	dims  int
	count int
	data  []float32 // count*dims values, row-major
}

// New builds an index from vectors in ordinal order. Every vector must
// have length dimensions.
func New(dimensions int, vectors [][]float32) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}

	data := make([]float32, 0, len(vectors)*dimensions)
	for i, vec := range vectors {
		if len(vec) != dimensions {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, i, len(vec), dimensions)
		}
		data = append(data, vec...)
	}

	return &Index{
		dims:  dimensions,
		count: len(vectors),
		data:  data,
	}, nil
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int { return idx.count }

// Dimensions returns the vector length the index was built with.
func (idx *Index) Dimensions() int { return idx.dims }

// Vector returns the stored vector at the given ordinal.
// The returned slice aliases the index and must not be modified.
func (idx *Index) Vector(ordinal int) ([]float32, bool) {
	if ordinal < 0 || ordinal >= idx.count {
		return nil, false
	}
	return idx.data[ordinal*idx.dims : (ordinal+1)*idx.dims], true
}

// Search returns the k nearest vectors by squared L2 distance, ascending,
// ties broken by lower ordinal.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), idx.dims)
	}
	if idx.count == 0 {
		return []driven.VectorHit{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hits := make([]driven.VectorHit, idx.count)
	for i := 0; i < idx.count; i++ {
		row := idx.data[i*idx.dims : (i+1)*idx.dims]
		var dist float64
		for j, q := range query {
			d := float64(q) - float64(row[j])
			dist += d * d
		}
		hits[i] = driven.VectorHit{Ordinal: i, Distance: dist}
	}

	// Stable sort keeps equal distances in ordinal order.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}
