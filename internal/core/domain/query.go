package domain

// QueryOptions configures a retrieval query.
type QueryOptions struct {
	// K is the number of nearest records to return. Must be positive.
	K int

	// MaxDistance drops hits whose squared L2 distance exceeds it.
	// Zero disables the cut-off.
	MaxDistance float64
}

// QueryResult is a single retrieval hit.
type QueryResult struct {
	// Record is the matched record, resolved via the generation mapping.
	Record Record

	// Distance is the squared L2 distance between the query vector and
	// the record's vector. Lower is better.
	Distance float64

	// Similarity is 1/(1+Distance), a 0-1 score where higher is better.
	Similarity float64
}

// SimilarityFromDistance converts a squared L2 distance to the 0-1
// similarity score reported next to each hit.
func SimilarityFromDistance(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}
