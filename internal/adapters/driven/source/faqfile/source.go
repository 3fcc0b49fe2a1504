// Package faqfile loads the general-queries record source: a JSON file
// mapping each question to its answer payload. Answers may be a plain
// string, a list, or a nested object.
package faqfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driven"
	"github.com/atheneum-labs/shelfsearch/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// Source reads question/answer pairs from a JSON file.
type Source struct {
	path string
}

// NewSource creates a source backed by the JSON file at path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Kind implements driven.RecordSource.
func (s *Source) Kind() domain.Kind { return domain.KindFAQ }

// Load implements driven.RecordSource. Questions are ordered
// lexicographically: JSON object keys carry no order, and the builder
// needs the same ordinal assignment on every load of the same content.
// Entries whose answer has an unsupported shape are skipped with a
// warning.
func (s *Source) Load(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrSourceUnavailable, s.path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrSourceUnavailable, s.path, err)
	}

	questions := make([]string, 0, len(raw))
	for q := range raw {
		questions = append(questions, q)
	}
	sort.Strings(questions)

	records := make([]domain.Record, 0, len(questions))
	var id int64
	for _, question := range questions {
		if question == "" {
			logger.Warn("Skipping FAQ entry with empty question")
			continue
		}

		var answer domain.Answer
		if err := json.Unmarshal(raw[question], &answer); err != nil {
			logger.Warn("Skipping malformed FAQ entry %q: %v", question, err)
			continue
		}

		id++
		records = append(records, domain.FaqRecord{
			ID:       id,
			Question: question,
			Answer:   answer,
		})
	}

	logger.Debug("Loaded %d FAQ records from %s", len(records), s.path)
	return records, nil
}
