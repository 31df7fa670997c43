package mcp

import (
	"github.com/custodia-labs/ideabox/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ideas manages the idea collection.
	Ideas driving.IdeaService

	// Enrichment runs AI refinement. Optional; refine_idea is only
	// registered when set.
	Enrichment driving.EnrichmentOrchestrator
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ideas == nil {
		return ErrMissingIdeaService
	}
	return nil
}
