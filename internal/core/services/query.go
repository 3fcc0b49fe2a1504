package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driving"
	"github.com/atheneum-labs/shelfsearch/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// DefaultQueryTimeout bounds the embed + search path of one query.
const DefaultQueryTimeout = 5 * time.Second

// QueryService is the query engine: it embeds an incoming text, searches
// the active generation for the requested kind and resolves hit ordinals
// back to full records.
type QueryService struct {
	registry *Registry
	embedder embedderPort
	timeout  time.Duration
}

// embedderPort is the subset of driven.EmbeddingService the query path
// needs.
type embedderPort interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewQueryService creates a query service. A non-positive timeout falls
// back to DefaultQueryTimeout.
func NewQueryService(registry *Registry, embedder embedderPort, timeout time.Duration) *QueryService {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &QueryService{
		registry: registry,
		embedder: embedder,
		timeout:  timeout,
	}
}

// Query implements driving.QueryService.
func (s *QueryService) Query(
	ctx context.Context, kind domain.Kind, text string, opts domain.QueryOptions,
) ([]domain.QueryResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown index kind %q", domain.ErrInvalidInput, kind)
	}
	if opts.K <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, opts.K)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	// Resolve the active generation first. A snapshot taken here stays
	// valid for the whole query even if a rebuild promotes mid-flight.
	snap := s.registry.Get(kind)
	if snap == nil {
		return nil, fmt.Errorf("%w: kind %q has no built generation", domain.ErrIndexNotReady, kind)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger.Debug("Query %s: %q (k=%d, generation=%s)", kind, truncate(text, 60), opts.K, snap.Generation.Info.ID)

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, mapTimeout(fmt.Errorf("embed query: %w", err))
	}

	hits, err := snap.Index.Search(ctx, vector, opts.K)
	if err != nil {
		return nil, mapTimeout(fmt.Errorf("search %s index: %w", kind, err))
	}

	results := make([]domain.QueryResult, 0, len(hits))
	for _, hit := range hits {
		if opts.MaxDistance > 0 && hit.Distance > opts.MaxDistance {
			continue
		}
		record, ok := snap.Generation.Record(hit.Ordinal)
		if !ok {
			// Cannot happen for a well-formed generation: index and
			// mapping are built together with identical cardinality.
			return nil, fmt.Errorf("ordinal %d out of range for generation %s", hit.Ordinal, snap.Generation.Info.ID)
		}
		results = append(results, domain.QueryResult{
			Record:     record,
			Distance:   hit.Distance,
			Similarity: domain.SimilarityFromDistance(hit.Distance),
		})
	}

	logger.Debug("Query %s: %d hits", kind, len(results))
	return results, nil
}

// mapTimeout surfaces a context deadline as the typed query-timeout
// error the serving layer switches on.
func mapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrQueryTimeout, err)
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}
