package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
)

func TestRegistryStartsEmpty(t *testing.T) {
	registry := NewRegistry()

	assert.Nil(t, registry.Get(domain.KindFAQ))
	assert.Nil(t, registry.Get(domain.KindCatalogue))
}

func TestRegistrySwapReturnsPrevious(t *testing.T) {
	registry := NewRegistry()

	first := &Snapshot{Generation: &domain.Generation{Info: domain.GenerationInfo{ID: "gen-1"}}}
	second := &Snapshot{Generation: &domain.Generation{Info: domain.GenerationInfo{ID: "gen-2"}}}

	assert.Nil(t, registry.Swap(domain.KindFAQ, first))

	prev := registry.Swap(domain.KindFAQ, second)
	require.NotNil(t, prev)
	assert.Equal(t, "gen-1", prev.Generation.Info.ID)

	got := registry.Get(domain.KindFAQ)
	require.NotNil(t, got)
	assert.Equal(t, "gen-2", got.Generation.Info.ID)
}

func TestRegistryKindsAreIndependent(t *testing.T) {
	registry := NewRegistry()

	snap := &Snapshot{Generation: &domain.Generation{Info: domain.GenerationInfo{ID: "faq-gen"}}}
	registry.Swap(domain.KindFAQ, snap)

	assert.NotNil(t, registry.Get(domain.KindFAQ))
	assert.Nil(t, registry.Get(domain.KindCatalogue))
}

func TestRegistryUnknownKind(t *testing.T) {
	registry := NewRegistry()

	assert.Nil(t, registry.Get(domain.Kind("bogus")))
	assert.Nil(t, registry.Swap(domain.Kind("bogus"), &Snapshot{}))
}
