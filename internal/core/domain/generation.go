package domain

import "time"

// GenerationInfo is the metadata of one built index generation.
type GenerationInfo struct {
	// ID uniquely identifies the generation within its kind.
	// IDs sort chronologically (timestamp prefix).
	ID string

	// Kind is the index this generation belongs to.
	Kind Kind

	// ModelName identifies the embedding model that produced the vectors.
	ModelName string

	// Dimensions is the embedding vector length.
	Dimensions int

	// RecordCount is the number of indexed records.
	RecordCount int

	// BuiltAt is when the build completed.
	BuiltAt time.Time
}

// Generation is one immutable, fully-built index snapshot: the embedding
// vectors in ordinal order plus the records they were derived from.
// Position i in Vectors corresponds exactly to Records[i]; the two slices
// always have identical length equal to Info.RecordCount.
//
// A Generation is never mutated after construction. Concurrent readers
// share it without locking.
type Generation struct {
	Info    GenerationInfo
	Vectors [][]float32
	Records []Record
}

// Record resolves an ordinal back to its record.
// Returns false when the ordinal is out of range.
func (g *Generation) Record(ordinal int) (Record, bool) {
	if ordinal < 0 || ordinal >= len(g.Records) {
		return nil, false
	}
	return g.Records[ordinal], true
}

// BuildReport is the result of a successful rebuild.
type BuildReport struct {
	GenerationID string
	RecordCount  int
	Duration     time.Duration
}

// IndexStatus describes the serving state of one index kind.
type IndexStatus struct {
	Kind               Kind
	Ready              bool
	Building           bool
	ActiveGenerationID string
	RecordCount        int
	BuiltAt            time.Time
}
