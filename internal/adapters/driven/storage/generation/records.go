package generation

import (
	"encoding/json"
	"fmt"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
)

// recordsFileV1 is the records.json document: the kind tag selects which
// of the per-kind record shapes the entries use.
type recordsFileV1 struct {
	Kind    string            `json:"kind"`
	Records []json.RawMessage `json:"records"`
}

type storedFaqRecord struct {
	ID       int64         `json:"id"`
	Question string        `json:"question"`
	Answer   domain.Answer `json:"answer"`
}

type storedCatalogueRecord struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Author      string             `json:"author,omitempty"`
	Year        string             `json:"year,omitempty"`
	ISBN        string             `json:"isbn,omitempty"`
	CallNumbers []string           `json:"call_numbers,omitempty"`
	Accessions  []string           `json:"accessions,omitempty"`
	Copies      int                `json:"copies"`
	Status      string             `json:"status"`
	Available   int                `json:"available_copies"`
	Total       int                `json:"total_copies"`
	Items       []storedItemDetail `json:"items,omitempty"`
	Summary     string             `json:"summary,omitempty"`
}

type storedItemDetail struct {
	Barcode string `json:"barcode,omitempty"`
	Status  string `json:"status,omitempty"`
	DueDate string `json:"due_date,omitempty"`
}

// encodeRecords serialises records in ordinal order.
func encodeRecords(kind domain.Kind, records []domain.Record) ([]byte, error) {
	doc := recordsFileV1{Kind: kind.String(), Records: make([]json.RawMessage, 0, len(records))}

	for i, rec := range records {
		var (
			raw []byte
			err error
		)
		switch r := rec.(type) {
		case domain.FaqRecord:
			raw, err = json.Marshal(storedFaqRecord{ID: r.ID, Question: r.Question, Answer: r.Answer})
		case domain.CatalogueRecord:
			raw, err = json.Marshal(toStoredCatalogue(r))
		default:
			return nil, fmt.Errorf("record %d has unsupported type %T", i, rec)
		}
		if err != nil {
			return nil, fmt.Errorf("marshal record %d: %w", i, err)
		}
		doc.Records = append(doc.Records, raw)
	}

	return json.Marshal(doc)
}

// decodeRecords parses records.json back into domain records, keeping
// ordinal order.
func decodeRecords(data []byte) ([]domain.Record, error) {
	var doc recordsFileV1
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse records document: %w", err)
	}
	kind, err := domain.ParseKind(doc.Kind)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(doc.Records))
	for i, raw := range doc.Records {
		switch kind {
		case domain.KindFAQ:
			var r storedFaqRecord
			if err := json.Unmarshal(raw, &r); err != nil {
				return nil, fmt.Errorf("parse faq record %d: %w", i, err)
			}
			records = append(records, domain.FaqRecord{ID: r.ID, Question: r.Question, Answer: r.Answer})
		case domain.KindCatalogue:
			var r storedCatalogueRecord
			if err := json.Unmarshal(raw, &r); err != nil {
				return nil, fmt.Errorf("parse catalogue record %d: %w", i, err)
			}
			records = append(records, fromStoredCatalogue(r))
		}
	}
	return records, nil
}

func toStoredCatalogue(r domain.CatalogueRecord) storedCatalogueRecord {
	stored := storedCatalogueRecord{
		ID:          r.ID,
		Title:       r.Title,
		Author:      r.Author,
		Year:        r.Year,
		ISBN:        r.ISBN,
		CallNumbers: r.CallNumbers,
		Accessions:  r.Accessions,
		Copies:      r.Copies,
		Status:      string(r.Availability.Status),
		Available:   r.Availability.AvailableCopies,
		Total:       r.Availability.TotalCopies,
		Summary:     r.Summary,
	}
	for _, item := range r.Items {
		stored.Items = append(stored.Items, storedItemDetail(item))
	}
	return stored
}

func fromStoredCatalogue(r storedCatalogueRecord) domain.CatalogueRecord {
	rec := domain.CatalogueRecord{
		ID:          r.ID,
		Title:       r.Title,
		Author:      r.Author,
		Year:        r.Year,
		ISBN:        r.ISBN,
		CallNumbers: r.CallNumbers,
		Accessions:  r.Accessions,
		Copies:      r.Copies,
		Availability: domain.Availability{
			Status:          domain.AvailabilityStatus(r.Status),
			AvailableCopies: r.Available,
			TotalCopies:     r.Total,
		},
		Summary: r.Summary,
	}
	for _, item := range r.Items {
		rec.Items = append(rec.Items, domain.ItemDetail(item))
	}
	return rec
}
