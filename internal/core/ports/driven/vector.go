package driven

import "context"

// VectorHit is a single nearest-neighbour result.
type VectorHit struct {
	// Ordinal is the position of the matched vector within the index.
	Ordinal int

	// Distance is the squared L2 distance to the query vector.
	Distance float64
}

// VectorIndex is an immutable nearest-neighbour structure over a fixed
// set of vectors. Safe for concurrent searches; never mutated after
// construction.
type VectorIndex interface {
	// Search returns the k nearest stored vectors by squared L2
	// distance, ascending, ties broken by lower ordinal. The result
	// length is min(k, Len()). k <= 0 fails with
	// domain.ErrInvalidInput; a query vector whose length differs from
	// Dimensions fails with domain.ErrDimensionMismatch.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of stored vectors.
	Len() int

	// Dimensions returns the vector length the index was built with.
	Dimensions() int
}

// VectorIndexFactory constructs a VectorIndex from vectors in ordinal
// order. The builder and the generation store use it so the index
// implementation stays swappable.
type VectorIndexFactory interface {
	Build(dimensions int, vectors [][]float32) (VectorIndex, error)
}
