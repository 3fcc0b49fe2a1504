// Package hashing provides a deterministic, dependency-free embedding
// service using signed feature hashing. Tokens and adjacent-token
// bigrams are hashed into a fixed number of buckets with a sign bit, and
// the result is L2-normalised. The same text always produces the same
// vector, which is what the index lifecycle tests and offline builds
// rely on; swap in the ollama backend when model-quality embeddings are
// wanted.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.EmbeddingService = (*Embedder)(nil)

// DefaultDimensions matches the sentence-transformer models commonly
// used for this kind of retrieval.
const DefaultDimensions = 384

// modelName identifies this embedding scheme. Bump the version suffix
// when the tokenisation or hashing changes, since vectors from
// different versions must never share an index.
const modelName = "feature-hash-v1"

// placeholderToken stands in for empty or whitespace-only input so that
// embedding never fails.
const placeholderToken = "\x00empty"

// bigramWeight scales adjacent-token pair features relative to single
// tokens.
const bigramWeight = 0.5

var tokenPattern = regexp.MustCompile(`\p{L}[\p{L}\p{N}]*(?:'\p{L}+)*`)

// Embedder is a stateless, thread-safe feature-hashing embedder.
type Embedder struct {
	dims      int
	stopwords map[string]struct{}
}

// New creates an embedder. A non-positive dims falls back to
// DefaultDimensions.
func New(dims int) *Embedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Embedder{
		dims:      dims,
		stopwords: defaultStopwords(),
	}
}

// Embed implements driven.EmbeddingService.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, e.dims)
	tokens := e.tokenize(text)
	if len(tokens) == 0 {
		tokens = []string{placeholderToken}
	}

	for _, tok := range tokens {
		e.addFeature(vec, tok, 1.0)
	}
	for i := 0; i+1 < len(tokens); i++ {
		e.addFeature(vec, tokens[i]+"\x00"+tokens[i+1], bigramWeight)
	}

	return normalise(vec), nil
}

// EmbedBatch implements driven.EmbeddingService. Results are in input
// order and identical to elementwise Embed calls.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions implements driven.EmbeddingService.
func (e *Embedder) Dimensions() int { return e.dims }

// ModelName implements driven.EmbeddingService.
func (e *Embedder) ModelName() string { return modelName }

// Close implements driven.EmbeddingService.
func (e *Embedder) Close() error { return nil }

// addFeature hashes a feature into its bucket with a sign derived from
// the hash, spreading collisions across positive and negative
// contributions.
func (e *Embedder) addFeature(vec []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	bucket := int(sum % uint64(e.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[bucket] += weight
}

func (e *Embedder) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func normalise(vec []float64) []float32 {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(vec))
	if norm == 0 {
		return out
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "for", "to",
		"of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "it", "this", "that", "these", "those",
		"from", "do", "does", "did", "what", "when", "how", "i", "my",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
