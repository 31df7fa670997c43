package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ideabox/internal/core/services"
)

func TestNewServer(t *testing.T) {
	t.Run("nil idea service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingIdeaService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Ideas: services.NewIdeaStore(nil)})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil idea service returns error", func(t *testing.T) {
		ports := &Ports{}
		assert.ErrorIs(t, ports.Validate(), ErrMissingIdeaService)
	})

	t.Run("ideas only is valid", func(t *testing.T) {
		ports := &Ports{Ideas: services.NewIdeaStore(nil)}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		store := services.NewIdeaStore(nil)
		ports := &Ports{
			Ideas:      store,
			Enrichment: services.NewEnrichmentService(store, nil, nil),
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestInstructions(t *testing.T) {
	store := services.NewIdeaStore(nil)

	withoutEnrichment := instructions(&Ports{Ideas: store})
	assert.Contains(t, withoutEnrichment, "change_status")
	assert.NotContains(t, withoutEnrichment, "refine_idea")

	withEnrichment := instructions(&Ports{
		Ideas:      store,
		Enrichment: services.NewEnrichmentService(store, nil, nil),
	})
	assert.Contains(t, withEnrichment, "refine_idea")
}
