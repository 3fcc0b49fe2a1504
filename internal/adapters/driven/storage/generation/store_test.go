package generation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func faqGeneration(id string, questions ...string) *domain.Generation {
	gen := &domain.Generation{
		Info: domain.GenerationInfo{
			ID:          id,
			Kind:        domain.KindFAQ,
			ModelName:   "feature-hash-v1",
			Dimensions:  4,
			RecordCount: len(questions),
			BuiltAt:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
	}
	for i, q := range questions {
		gen.Records = append(gen.Records, domain.FaqRecord{
			ID:       int64(i + 1),
			Question: q,
			Answer:   domain.TextAnswer("answer to " + q),
		})
		gen.Vectors = append(gen.Vectors, []float32{float32(i), 1, 2, 3})
	}
	return gen
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	gen := faqGeneration("20260830T120000-aaaa1111", "library hours", "membership")
	require.NoError(t, store.Save(ctx, gen))

	loaded, err := store.Load(ctx, domain.KindFAQ, gen.Info.ID)
	require.NoError(t, err)

	assert.Equal(t, gen.Info, loaded.Info)
	assert.Equal(t, gen.Vectors, loaded.Vectors)
	assert.Equal(t, gen.Records, loaded.Records)
}

func TestSaveCatalogueRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	gen := &domain.Generation{
		Info: domain.GenerationInfo{
			ID:          "20260830T120100-bbbb2222",
			Kind:        domain.KindCatalogue,
			ModelName:   "feature-hash-v1",
			Dimensions:  2,
			RecordCount: 1,
			BuiltAt:     time.Date(2026, 8, 30, 12, 1, 0, 0, time.UTC),
		},
		Vectors: [][]float32{{0.5, -0.5}},
		Records: []domain.Record{
			domain.CatalogueRecord{
				ID:          9,
				Title:       "Pattern Recognition",
				Author:      "Gibson, William",
				Year:        "2003",
				ISBN:        "978-0-399-14986-3",
				CallNumbers: []string{"PS3557.I2264"},
				Accessions:  []string{"ACC900"},
				Copies:      1,
				Availability: domain.Availability{
					Status:          domain.StatusAvailable,
					AvailableCopies: 1,
					TotalCopies:     1,
				},
				Items:   []domain.ItemDetail{{Barcode: "ACC900", Status: "available"}},
				Summary: "A novel.",
			},
		},
	}
	require.NoError(t, store.Save(ctx, gen))

	loaded, err := store.Load(ctx, domain.KindCatalogue, gen.Info.ID)
	require.NoError(t, err)
	assert.Equal(t, gen.Records, loaded.Records)
	assert.Equal(t, gen.Vectors, loaded.Vectors)
}

func TestSaveRejectsInconsistentGeneration(t *testing.T) {
	store := newTestStore(t)
	gen := faqGeneration("bad-gen", "only question")
	gen.Info.RecordCount = 5

	err := store.Save(context.Background(), gen)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaveLeavesNoPartialArtifactsOnFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	gen := faqGeneration("gen-x", "q")
	// Vector/dimension mismatch makes the vector encode step fail after
	// the staging directory exists.
	gen.Vectors[0] = []float32{1}

	err := store.Save(ctx, gen)
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(store.Root(), "faq"))
	if err == nil {
		assert.Empty(t, entries, "failed save must not leave staging directories behind")
	}
}

func TestActiveIDBeforeAnyPromotion(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ActiveID(context.Background(), domain.KindFAQ)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetActiveAndActiveID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	gen := faqGeneration("20260830T120000-cccc3333", "q1")
	require.NoError(t, store.Save(ctx, gen))
	require.NoError(t, store.SetActive(ctx, domain.KindFAQ, gen.Info.ID))

	id, err := store.ActiveID(ctx, domain.KindFAQ)
	require.NoError(t, err)
	assert.Equal(t, gen.Info.ID, id)
}

func TestSetActiveRejectsUnknownGeneration(t *testing.T) {
	store := newTestStore(t)

	err := store.SetActive(context.Background(), domain.KindFAQ, "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := faqGeneration("20260830T110000-old11111", "q")
	newer := faqGeneration("20260830T120000-new22222", "q")
	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	infos, err := store.List(ctx, domain.KindFAQ)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, newer.Info.ID, infos[0].ID)
	assert.Equal(t, older.Info.ID, infos[1].ID)
}

func TestPruneKeepsActiveAndRetained(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	gens := []*domain.Generation{
		faqGeneration("20260830T100000-gen00001", "q"),
		faqGeneration("20260830T110000-gen00002", "q"),
		faqGeneration("20260830T120000-gen00003", "q"),
		faqGeneration("20260830T130000-gen00004", "q"),
	}
	for _, gen := range gens {
		require.NoError(t, store.Save(ctx, gen))
	}
	// Promote the oldest: pruning must never delete the active
	// generation even when newer ones exist.
	require.NoError(t, store.SetActive(ctx, domain.KindFAQ, gens[0].Info.ID))

	require.NoError(t, store.Prune(ctx, domain.KindFAQ, 1))

	infos, err := store.List(ctx, domain.KindFAQ)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, gens[3].Info.ID, infos[0].ID, "newest non-active generation is retained")
	assert.Equal(t, gens[0].Info.ID, infos[1].ID, "active generation survives")
}

func TestPruneWithNoActiveMarker(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, faqGeneration("20260830T100000-aaaa0001", "q")))
	require.NoError(t, store.Save(ctx, faqGeneration("20260830T110000-aaaa0002", "q")))

	require.NoError(t, store.Prune(ctx, domain.KindFAQ, 1))

	infos, err := store.List(ctx, domain.KindFAQ)
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestVectorCodecRoundTrip(t *testing.T) {
	vectors := [][]float32{{1.5, -2.25, 0}, {0.001, 3.14159, -100}}

	data, err := encodeVectors(3, vectors)
	require.NoError(t, err)

	decoded, err := decodeVectors(data)
	require.NoError(t, err)
	assert.Equal(t, vectors, decoded)
}

func TestVectorCodecRejectsCorruptPayload(t *testing.T) {
	_, err := decodeVectors([]byte("short"))
	assert.Error(t, err)

	data, err := encodeVectors(2, [][]float32{{1, 2}})
	require.NoError(t, err)
	_, err = decodeVectors(data[:len(data)-1])
	assert.Error(t, err)
}
