// Package driven defines the interfaces the core requires from its
// infrastructure: record sources, the embedding service, the vector
// index, and durable generation storage.
//
// Adapters under internal/adapters/driven implement these interfaces.
// The core services depend only on the interfaces, never on a concrete
// adapter, so every backend is swappable in tests.
package driven
