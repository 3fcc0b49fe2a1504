package driven

import (
	"context"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
)

// GenerationStore persists built index generations.
//
// Each generation is written in full under a new identifier using
// write-then-rename semantics: a crash mid-write never corrupts a
// previously persisted generation. Exactly one generation id per kind is
// marked active; the marker itself is replaced atomically.
type GenerationStore interface {
	// Save durably writes a complete generation. Partial artifacts are
	// removed on failure.
	Save(ctx context.Context, gen *domain.Generation) error

	// Load reads a persisted generation by id.
	// Returns domain.ErrNotFound if it does not exist.
	Load(ctx context.Context, kind domain.Kind, generationID string) (*domain.Generation, error)

	// ActiveID returns the generation id currently marked active for a
	// kind. Returns domain.ErrNotFound if no generation was ever
	// promoted.
	ActiveID(ctx context.Context, kind domain.Kind) (string, error)

	// SetActive atomically marks a generation as active.
	SetActive(ctx context.Context, kind domain.Kind, generationID string) error

	// List returns the metadata of all persisted generations for a
	// kind, newest first.
	List(ctx context.Context, kind domain.Kind) ([]domain.GenerationInfo, error)

	// Prune deletes superseded generations, keeping the active one and
	// the retain most recent others. The active generation is never
	// deleted.
	Prune(ctx context.Context, kind domain.Kind, retain int) error
}
