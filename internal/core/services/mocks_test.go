package services

import (
	"context"
	"sync"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driven"
)

// mockSource is a configurable in-memory record source. When blockCh is
// set, Load signals startedCh and then parks until blockCh is closed,
// which lets tests hold a rebuild in flight.
type mockSource struct {
	kind      domain.Kind
	records   []domain.Record
	err       error
	blockCh   chan struct{}
	startedCh chan struct{}
	startOnce sync.Once
}

func (m *mockSource) Kind() domain.Kind { return m.kind }

func (m *mockSource) Load(ctx context.Context) ([]domain.Record, error) {
	if m.startedCh != nil {
		m.startOnce.Do(func() { close(m.startedCh) })
	}
	if m.blockCh != nil {
		select {
		case <-m.blockCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

// mockEmbedder returns fixed-size vectors or a configured error.
type mockEmbedder struct {
	dims     int
	embedErr error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	vec := make([]float32, m.dims)
	for i := range vec {
		vec[i] = float32(len(text) % (i + 2))
	}
	return vec, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int   { return m.dims }
func (m *mockEmbedder) ModelName() string { return "mock-embedder" }
func (m *mockEmbedder) Close() error      { return nil }

func toRecordSources(sources []*mockSource) []driven.RecordSource {
	out := make([]driven.RecordSource, len(sources))
	for i, src := range sources {
		out[i] = src
	}
	return out
}

func faqRecords(questions ...string) []domain.Record {
	records := make([]domain.Record, len(questions))
	for i, q := range questions {
		records[i] = domain.FaqRecord{
			ID:       int64(i + 1),
			Question: q,
			Answer:   domain.TextAnswer("answer to " + q),
		}
	}
	return records
}
