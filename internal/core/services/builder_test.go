package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheneum-labs/shelfsearch/internal/adapters/driven/storage/generation"
	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
	"github.com/atheneum-labs/shelfsearch/internal/index/flat"
)

func newTestStore(t *testing.T) *generation.Store {
	t.Helper()
	store, err := generation.NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestBuildPersistsGeneration(t *testing.T) {
	store := newTestStore(t)
	source := &mockSource{
		kind:    domain.KindFAQ,
		records: faqRecords("library hours", "membership", "renewals"),
	}
	builder := NewIndexBuilder(&mockEmbedder{dims: 8}, store, flat.NewFactory(), source)

	gen, index, err := builder.Build(context.Background(), domain.KindFAQ)
	require.NoError(t, err)
	require.NotNil(t, index)

	assert.Equal(t, 3, gen.Info.RecordCount)
	assert.Equal(t, 8, gen.Info.Dimensions)
	assert.Equal(t, "mock-embedder", gen.Info.ModelName)
	assert.Len(t, gen.Vectors, len(gen.Records), "one vector per record, ordinal-aligned")
	assert.Equal(t, 3, index.Len())

	loaded, err := store.Load(context.Background(), domain.KindFAQ, gen.Info.ID)
	require.NoError(t, err)
	assert.Equal(t, gen.Records, loaded.Records)
}

func TestBuildEmptySource(t *testing.T) {
	store := newTestStore(t)
	source := &mockSource{kind: domain.KindFAQ}
	builder := NewIndexBuilder(&mockEmbedder{dims: 8}, store, flat.NewFactory(), source)

	_, _, err := builder.Build(context.Background(), domain.KindFAQ)
	assert.ErrorIs(t, err, domain.ErrEmptySource)
}

func TestBuildSourceFailure(t *testing.T) {
	store := newTestStore(t)
	source := &mockSource{kind: domain.KindFAQ, err: domain.ErrSourceUnavailable}
	builder := NewIndexBuilder(&mockEmbedder{dims: 8}, store, flat.NewFactory(), source)

	_, _, err := builder.Build(context.Background(), domain.KindFAQ)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestBuildUnknownKind(t *testing.T) {
	store := newTestStore(t)
	builder := NewIndexBuilder(&mockEmbedder{dims: 8}, store, flat.NewFactory())

	_, _, err := builder.Build(context.Background(), domain.KindFAQ)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerationIDsSortChronologically(t *testing.T) {
	a := NewGenerationID()
	b := NewGenerationID()

	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, a[:15], b[:15], "timestamp prefix orders ids")
}
