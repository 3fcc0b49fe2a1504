package flat

import "github.com/atheneum-labs/shelfsearch/internal/core/ports/driven"

// Ensure Factory implements the interface.
var _ driven.VectorIndexFactory = (*Factory)(nil)

// Factory builds flat indexes for the core services.
type Factory struct{}

// NewFactory creates a flat index factory.
func NewFactory() *Factory { return &Factory{} }

// Build implements driven.VectorIndexFactory.
func (f *Factory) Build(dimensions int, vectors [][]float32) (driven.VectorIndex, error) {
	return New(dimensions, vectors)
}
