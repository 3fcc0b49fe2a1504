package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driven"
	"github.com/atheneum-labs/shelfsearch/internal/logger"
)

// IndexBuilder builds one new index generation from a record-source
// snapshot: load records, embed their derived texts in order, construct
// the vector index and persist the result durably.
type IndexBuilder struct {
	sources  map[domain.Kind]driven.RecordSource
	embedder driven.EmbeddingService
	store    driven.GenerationStore
	factory  driven.VectorIndexFactory
}

// NewIndexBuilder creates an index builder over the given sources.
func NewIndexBuilder(
	embedder driven.EmbeddingService,
	store driven.GenerationStore,
	factory driven.VectorIndexFactory,
	sources ...driven.RecordSource,
) *IndexBuilder {
	byKind := make(map[domain.Kind]driven.RecordSource, len(sources))
	for _, src := range sources {
		byKind[src.Kind()] = src
	}
	return &IndexBuilder{
		sources:  byKind,
		embedder: embedder,
		store:    store,
		factory:  factory,
	}
}

// Build produces and persists a new generation for kind. It never
// touches the currently active generation: promotion is the rebuild
// coordinator's job.
func (b *IndexBuilder) Build(ctx context.Context, kind domain.Kind) (*domain.Generation, driven.VectorIndex, error) {
	logger.Section(fmt.Sprintf("Build %s Index", kind))

	src, ok := b.sources[kind]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no record source for kind %q", domain.ErrInvalidInput, kind)
	}
	if b.embedder == nil {
		return nil, nil, domain.ErrEmbeddingUnavailable
	}

	records, err := src.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s records: %w", kind, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: kind %q", domain.ErrEmptySource, kind)
	}
	logger.Debug("Loaded %d %s records", len(records), kind)

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.EmbeddingText()
	}

	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("embed %s records: %w", kind, err)
	}
	logger.Debug("Embedded %d texts (%d dimensions)", len(vectors), b.embedder.Dimensions())

	dims := b.embedder.Dimensions()
	index, err := b.factory.Build(dims, vectors)
	if err != nil {
		return nil, nil, fmt.Errorf("build %s vector index: %w", kind, err)
	}

	gen := &domain.Generation{
		Info: domain.GenerationInfo{
			ID:          NewGenerationID(),
			Kind:        kind,
			ModelName:   b.embedder.ModelName(),
			Dimensions:  dims,
			RecordCount: len(records),
			BuiltAt:     time.Now().UTC(),
		},
		Vectors: vectors,
		Records: records,
	}

	if err := b.store.Save(ctx, gen); err != nil {
		return nil, nil, fmt.Errorf("persist generation %s: %w", gen.Info.ID, err)
	}
	logger.Info("Built generation %s: %d records", gen.Info.ID, gen.Info.RecordCount)

	return gen, index, nil
}

// NewGenerationID returns a fresh generation identifier. The timestamp
// prefix makes ids sort chronologically; the uuid suffix keeps two
// builds within the same second distinct.
func NewGenerationID() string {
	return fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102T150405"), uuid.NewString()[:8])
}
