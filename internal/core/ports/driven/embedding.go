package driven

import "context"

// EmbeddingService generates vector embeddings for text.
//
// Embeddings are deterministic: the same text with the same ModelName
// always yields the same vector. Empty or whitespace-only text embeds to
// a valid placeholder vector, never an error. Implementations must be
// safe for concurrent use; the underlying model is loaded once per
// process and shared across calls.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving
	// input order. Equivalent to calling Embed elementwise.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector length.
	Dimensions() int

	// ModelName identifies the embedding model version.
	ModelName() string

	// Close releases resources.
	Close() error
}
