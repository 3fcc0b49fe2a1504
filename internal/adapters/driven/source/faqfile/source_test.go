package faqfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
)

func writeFaqFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "general_queries.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadOrdersQuestionsLexicographically(t *testing.T) {
	path := writeFaqFile(t, `{
		"zebra question": "z",
		"alpha question": "a",
		"middle question": "m"
	}`)

	records, err := NewSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0].(domain.FaqRecord)
	assert.Equal(t, "alpha question", first.Question)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "middle question", records[1].(domain.FaqRecord).Question)
	assert.Equal(t, "zebra question", records[2].(domain.FaqRecord).Question)
}

func TestLoadIsDeterministic(t *testing.T) {
	path := writeFaqFile(t, `{"b": "2", "a": "1", "c": "3"}`)
	src := NewSource(path)

	first, err := src.Load(context.Background())
	require.NoError(t, err)
	second, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadParsesAllAnswerShapes(t *testing.T) {
	path := writeFaqFile(t, `{
		"plain": "just text",
		"steps": ["one", "two"],
		"rich": {"answer": "9am-9pm", "intent": "hours"}
	}`)

	records, err := NewSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	byQuestion := make(map[string]domain.Answer)
	for _, rec := range records {
		faq := rec.(domain.FaqRecord)
		byQuestion[faq.Question] = faq.Answer
	}

	assert.Equal(t, domain.AnswerText, byQuestion["plain"].Form)
	assert.Equal(t, domain.AnswerList, byQuestion["steps"].Form)
	assert.Equal(t, domain.AnswerStructured, byQuestion["rich"].Form)
	assert.Equal(t, "9am-9pm", byQuestion["rich"].Fields["answer"])
}

func TestLoadSkipsMalformedEntries(t *testing.T) {
	path := writeFaqFile(t, `{
		"good": "fine",
		"bad": 42,
		"also good": "ok"
	}`)

	records, err := NewSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2, "the numeric answer should be skipped, not fatal")
}

func TestLoadMissingFileIsSourceUnavailable(t *testing.T) {
	src := NewSource(filepath.Join(t.TempDir(), "nope.json"))

	_, err := src.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestLoadInvalidJSONIsSourceUnavailable(t *testing.T) {
	path := writeFaqFile(t, `{not json`)

	_, err := NewSource(path).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestKind(t *testing.T) {
	assert.Equal(t, domain.KindFAQ, NewSource("x").Kind())
}
