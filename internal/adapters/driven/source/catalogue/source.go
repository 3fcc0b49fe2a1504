// Package catalogue loads the book-catalogue record source from a
// SQLite database: a books table plus a per-copy items table. Copies of
// the same title are aggregated into one record carrying ordered
// accession and call-number lists and an availability snapshot.
package catalogue

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driven"
	"github.com/atheneum-labs/shelfsearch/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// itemStatusAvailable is the raw circulation status marking a copy as
// on the shelf. Any other status counts as checked out.
const itemStatusAvailable = "available"

// itemRow is one per-copy row from the items table.
type itemRow struct {
	barcode    string
	callNumber string
	status     string
	dueDate    string
}

// Source reads catalogue records from a SQLite database file.
type Source struct {
	path string
}

// NewSource creates a source backed by the database at path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Kind implements driven.RecordSource.
func (s *Source) Kind() domain.Kind { return domain.KindCatalogue }

// Load implements driven.RecordSource. Books are returned in primary-key
// order so ordinal assignment is stable for a given database state.
// Rows without a title are malformed and skipped with a warning.
func (s *Source) Load(ctx context.Context) ([]domain.Record, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", domain.ErrSourceUnavailable, s.path, err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrSourceUnavailable, s.path, err)
	}
	defer db.Close()

	items, err := loadItems(ctx, db)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, title, author, year, isbn, summary
		FROM books
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query books: %v", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var (
			id                  int64
			title, author, year sql.NullString
			isbn, summary       sql.NullString
		)
		if err := rows.Scan(&id, &title, &author, &year, &isbn, &summary); err != nil {
			logger.Warn("Skipping unreadable catalogue row: %v", err)
			continue
		}
		if strings.TrimSpace(title.String) == "" {
			logger.Warn("Skipping catalogue row %d: empty title", id)
			continue
		}

		rec := domain.CatalogueRecord{
			ID:      id,
			Title:   strings.TrimSpace(title.String),
			Author:  strings.TrimSpace(author.String),
			Year:    strings.TrimSpace(year.String),
			ISBN:    strings.TrimSpace(isbn.String),
			Summary: strings.TrimSpace(summary.String),
		}
		applyItems(&rec, items[id])
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate books: %v", domain.ErrSourceUnavailable, err)
	}

	logger.Debug("Loaded %d catalogue records from %s", len(records), s.path)
	return records, nil
}

// loadItems reads all per-copy rows grouped by book, preserving item
// insertion order within each book.
func loadItems(ctx context.Context, db *sql.DB) (map[int64][]itemRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT book_id, barcode, call_number, status, due_date
		FROM items
		ORDER BY book_id, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query items: %v", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	items := make(map[int64][]itemRow)
	for rows.Next() {
		var (
			bookID                       int64
			barcode, callNo, status, due sql.NullString
		)
		if err := rows.Scan(&bookID, &barcode, &callNo, &status, &due); err != nil {
			logger.Warn("Skipping unreadable item row: %v", err)
			continue
		}
		items[bookID] = append(items[bookID], itemRow{
			barcode:    strings.TrimSpace(barcode.String),
			callNumber: strings.TrimSpace(callNo.String),
			status:     strings.ToLower(strings.TrimSpace(status.String)),
			dueDate:    strings.TrimSpace(due.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate items: %v", domain.ErrSourceUnavailable, err)
	}
	return items, nil
}

// applyItems fills the copy-derived fields of a record: copies count,
// ordered distinct accessions and call numbers, per-copy details and
// the availability snapshot.
func applyItems(rec *domain.CatalogueRecord, items []itemRow) {
	rec.Copies = len(items)

	if len(items) == 0 {
		rec.Availability = domain.Availability{Status: domain.StatusUnknown}
		return
	}

	available := 0
	for _, item := range items {
		if item.status == itemStatusAvailable {
			available++
		}
		if item.barcode != "" && !contains(rec.Accessions, item.barcode) {
			rec.Accessions = append(rec.Accessions, item.barcode)
		}
		if item.callNumber != "" && !contains(rec.CallNumbers, item.callNumber) {
			rec.CallNumbers = append(rec.CallNumbers, item.callNumber)
		}
		rec.Items = append(rec.Items, domain.ItemDetail{
			Barcode: item.barcode,
			Status:  item.status,
			DueDate: item.dueDate,
		})
	}

	status := domain.StatusIssued
	if available > 0 {
		status = domain.StatusAvailable
	}
	rec.Availability = domain.Availability{
		Status:          status,
		AvailableCopies: available,
		TotalCopies:     len(items),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
