package services

import (
	"sync/atomic"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driven"
)

// Snapshot pairs an immutable generation with its searchable index.
// Queries operate on a snapshot for their whole duration; a promotion
// happening mid-query never affects them.
type Snapshot struct {
	Generation *domain.Generation
	Index      driven.VectorIndex
}

// Registry owns the active pointer for each index kind. It is the only
// mutable shared state on the query path: one atomic pointer per kind,
// read lock-free by queries and replaced in a single swap by the
// rebuild coordinator.
//
// The registry is an explicit, injectable component rather than package
// state, so tests get a fresh registry per case.
type Registry struct {
	pointers map[domain.Kind]*atomic.Pointer[Snapshot]
}

// NewRegistry creates a registry with an empty pointer per known kind.
func NewRegistry() *Registry {
	pointers := make(map[domain.Kind]*atomic.Pointer[Snapshot], len(domain.Kinds()))
	for _, kind := range domain.Kinds() {
		pointers[kind] = &atomic.Pointer[Snapshot]{}
	}
	return &Registry{pointers: pointers}
}

// Get returns the active snapshot for a kind, or nil when no generation
// has been promoted yet. Lock-free.
func (r *Registry) Get(kind domain.Kind) *Snapshot {
	ptr, ok := r.pointers[kind]
	if !ok {
		return nil
	}
	return ptr.Load()
}

// Swap atomically replaces the active snapshot for a kind and returns
// the previous one (nil on first promotion). Readers observe either the
// old or the new snapshot, never an intermediate state.
func (r *Registry) Swap(kind domain.Kind, snap *Snapshot) *Snapshot {
	ptr, ok := r.pointers[kind]
	if !ok {
		return nil
	}
	return ptr.Swap(snap)
}
