package driving

import (
	"context"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
)

// RebuildService runs full re-embed + re-index cycles and reports index
// state. Used by admin actions and scheduled jobs.
type RebuildService interface {
	// Rebuild builds a new generation for kind and atomically promotes
	// it. Queries keep serving the previous generation throughout.
	//
	// A concurrent rebuild of the same kind is rejected with
	// domain.ErrRebuildInProgress. On any build failure the previously
	// active generation is untouched.
	Rebuild(ctx context.Context, kind domain.Kind) (domain.BuildReport, error)

	// Status reports the serving state of one kind.
	Status(ctx context.Context, kind domain.Kind) (domain.IndexStatus, error)
}
