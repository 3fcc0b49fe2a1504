// Package domain defines the core business entities for ShelfSearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: an indexable entry (FAQ pair or catalogue book)
//   - Generation: one immutable, fully-built vector index snapshot
//   - QueryResult: a ranked retrieval hit with distance and record
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
