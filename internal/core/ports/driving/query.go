package driving

import (
	"context"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
)

// QueryService answers text queries against the active index generation
// of a kind.
type QueryService interface {
	// Query embeds text, searches the active generation and returns up
	// to opts.K records ordered by ascending distance.
	//
	// Fails with domain.ErrIndexNotReady when no generation has ever
	// been built for the kind, domain.ErrInvalidInput for a bad kind or
	// non-positive K, and domain.ErrQueryTimeout when the embed +
	// search path exceeds its budget. Errors are returned per call and
	// never affect concurrent queries.
	Query(ctx context.Context, kind domain.Kind, text string, opts domain.QueryOptions) ([]domain.QueryResult, error)
}
