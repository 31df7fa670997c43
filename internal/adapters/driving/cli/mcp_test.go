package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/ideabox/internal/adapters/driving/mcp"
)

func TestMCPCmd_Use(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.NotNil(t, mcpCmd.Flags().Lookup("port"))
}

func TestMCPCmd_ErrorsWithoutIdeaService(t *testing.T) {
	_, err := execute(t, "mcp")
	assert.ErrorIs(t, err, mcp.ErrMissingIdeaService)
}
