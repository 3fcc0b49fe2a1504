package driven

import (
	"context"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
)

// RecordSource loads the authoritative record set for one index kind.
//
// Load returns records in a deterministic order (insertion or primary-key
// order); the index builder preserves this order when assigning ordinals.
// A missing or unreadable backing file/table fails with
// domain.ErrSourceUnavailable. Individual entries that cannot be parsed
// are skipped with a warning and do not fail the load.
type RecordSource interface {
	// Kind identifies the index this source feeds.
	Kind() domain.Kind

	// Load reads the full record set.
	Load(ctx context.Context) ([]domain.Record, error)
}
