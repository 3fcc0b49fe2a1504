package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Source Errors.

	// ErrSourceUnavailable indicates the backing file or table for a
	// record source is missing or unreadable. Aborts a build.
	ErrSourceUnavailable = errors.New("record source unavailable")

	// ErrMalformedRecord indicates an individual source entry could not
	// be parsed. The entry is skipped with a warning; the load continues.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrEmptySource indicates the record source produced zero records.
	// A build never replaces an active generation with an empty one.
	ErrEmptySource = errors.New("record source is empty")

	// Query Errors.

	// ErrIndexNotReady indicates no generation has ever been built for
	// the requested kind. Distinguishable from a zero-result query so
	// callers can fall back to a non-retrieval response.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrDimensionMismatch indicates a query vector's dimensionality does
	// not match the index. This is a programming error, not a runtime
	// condition: detect and fail fast.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrQueryTimeout indicates the embed + search path exceeded its
	// wall-clock budget.
	ErrQueryTimeout = errors.New("query timed out")

	// Coordination Errors.

	// ErrRebuildInProgress indicates a rebuild for the same kind is
	// already running. The request is rejected, not queued.
	ErrRebuildInProgress = errors.New("rebuild already in progress")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
