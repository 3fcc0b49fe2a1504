package domain

import "strings"

// Record is an indexable entry. Each concrete kind derives its embedding
// input text by a deterministic rule so that rebuilding from the same
// source content always produces the same vectors.
type Record interface {
	// RecordID is the stable identifier within one index generation.
	RecordID() int64

	// EmbeddingText is the text fed to the embedder for this record.
	// It is a pure function of the record's content.
	EmbeddingText() string
}

// FaqRecord is a question/answer pair from the general-queries source.
type FaqRecord struct {
	// ID is the stable identifier within a generation.
	ID int64

	// Question is the embedding source text.
	Question string

	// Answer is the payload returned to the serving layer.
	Answer Answer
}

// RecordID implements Record.
func (r FaqRecord) RecordID() int64 { return r.ID }

// EmbeddingText implements Record. FAQ entries embed the question text.
func (r FaqRecord) EmbeddingText() string { return r.Question }

// AvailabilityStatus summarises whether any copy of a book can be borrowed.
type AvailabilityStatus string

const (
	// StatusAvailable means at least one copy is on the shelf.
	StatusAvailable AvailabilityStatus = "available"

	// StatusIssued means every copy is checked out.
	StatusIssued AvailabilityStatus = "issued"

	// StatusUnknown means no per-copy information exists.
	StatusUnknown AvailabilityStatus = "unknown"
)

// Availability is a point-in-time snapshot of a book's copy counts.
type Availability struct {
	Status          AvailabilityStatus
	AvailableCopies int
	TotalCopies     int
}

// ItemDetail describes one physical copy of a book.
type ItemDetail struct {
	// Barcode is the accession/barcode number of the copy.
	Barcode string

	// Status is the raw per-copy circulation status.
	Status string

	// DueDate is set when the copy is checked out.
	DueDate string
}

// CatalogueRecord is one merged book entry from the catalogue source.
// Multiple physical copies of the same title collapse into a single
// record carrying ordered accession and call-number lists.
type CatalogueRecord struct {
	ID     int64
	Title  string
	Author string
	Year   string
	ISBN   string

	// CallNumbers holds the distinct shelf locations, in item order.
	CallNumbers []string

	// Accessions holds the distinct copy barcodes, in item order.
	Accessions []string

	// Copies is the number of physical copies.
	Copies int

	// Availability is the snapshot taken when the source was loaded.
	Availability Availability

	// Items holds optional per-copy detail rows.
	Items []ItemDetail

	// Summary is optional descriptive text.
	Summary string
}

// RecordID implements Record.
func (r CatalogueRecord) RecordID() int64 { return r.ID }

// EmbeddingText implements Record. Catalogue entries embed the title,
// author and summary joined by single spaces, skipping empty fields.
func (r CatalogueRecord) EmbeddingText() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Title, r.Author, r.Summary} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
