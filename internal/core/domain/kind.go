package domain

import "fmt"

// Kind identifies an independently built and queried index.
type Kind string

const (
	// KindFAQ is the small question/answer index for general library queries.
	KindFAQ Kind = "faq"

	// KindCatalogue is the large book-catalogue index.
	KindCatalogue Kind = "catalogue"
)

// Kinds returns all known index kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindFAQ, KindCatalogue}
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindFAQ, KindCatalogue:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown index kind %q", ErrInvalidInput, s)
	}
}

// Valid reports whether the kind is one of the known index kinds.
func (k Kind) Valid() bool {
	return k == KindFAQ || k == KindCatalogue
}

func (k Kind) String() string {
	return string(k)
}
