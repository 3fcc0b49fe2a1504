package domain

import (
	"encoding/json"
	"fmt"
)

// AnswerForm discriminates the shape of an FAQ answer payload.
type AnswerForm string

const (
	// AnswerText is a plain string answer.
	AnswerText AnswerForm = "text"

	// AnswerList is an ordered list of strings.
	AnswerList AnswerForm = "list"

	// AnswerStructured is a nested key/value mapping.
	AnswerStructured AnswerForm = "structured"
)

// Answer is a tagged variant for FAQ answer payloads. The upstream
// question/answer source stores answers as a bare string, a list, or a
// nested object; the serving layer decides how to render each form.
type Answer struct {
	Form   AnswerForm
	Text   string
	Items  []string
	Fields map[string]any
}

// TextAnswer builds a plain-text answer.
func TextAnswer(s string) Answer {
	return Answer{Form: AnswerText, Text: s}
}

// ListAnswer builds a list answer.
func ListAnswer(items []string) Answer {
	return Answer{Form: AnswerList, Items: items}
}

// StructuredAnswer builds a structured answer.
func StructuredAnswer(fields map[string]any) Answer {
	return Answer{Form: AnswerStructured, Fields: fields}
}

// MarshalJSON encodes the answer in its source shape: a JSON string,
// array, or object, with no wrapper.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Form {
	case AnswerText:
		return json.Marshal(a.Text)
	case AnswerList:
		return json.Marshal(a.Items)
	case AnswerStructured:
		return json.Marshal(a.Fields)
	default:
		return nil, fmt.Errorf("%w: answer form %q", ErrInvalidInput, a.Form)
	}
}

// UnmarshalJSON decodes a string, array, or object into the matching
// variant. Any other JSON value is a malformed record.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*a = TextAnswer(text)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*a = ListAnswer(items)
		return nil
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err == nil {
		*a = StructuredAnswer(fields)
		return nil
	}

	return fmt.Errorf("%w: answer is not a string, list, or object", ErrMalformedRecord)
}

// String renders a short human-readable form, mainly for CLI output.
func (a Answer) String() string {
	switch a.Form {
	case AnswerText:
		return a.Text
	case AnswerList:
		if len(a.Items) == 0 {
			return ""
		}
		out := a.Items[0]
		for _, item := range a.Items[1:] {
			out += "; " + item
		}
		return out
	case AnswerStructured:
		if s, ok := a.Fields["answer"].(string); ok {
			return s
		}
		data, err := json.Marshal(a.Fields)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}
