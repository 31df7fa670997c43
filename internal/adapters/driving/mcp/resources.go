package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Ideabox resources.
	uriScheme = "ideabox://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "ideas",
		Name:        "ideas",
		Description: "All ideas in submission order",
		MIMEType:    "application/json",
	}, s.handleIdeasResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "ideas/{ideaId}",
		Name:        "idea",
		Description: "A single idea with its AI proposal",
		MIMEType:    "application/json",
	}, s.handleIdeaResource)
}

// handleIdeasResource returns every idea.
func (s *Server) handleIdeasResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ideas, err := s.ports.Ideas.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}

	out := make([]IdeaOutput, len(ideas))
	for i := range ideas {
		out[i] = toOutput(&ideas[i])
	}
	return jsonResource(req.Params.URI, out)
}

// handleIdeaResource returns one idea.
func (s *Server) handleIdeaResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractIdeaID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	idea, err := s.ports.Ideas.Get(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, toOutput(&idea))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractIdeaID extracts the idea ID from a URI like ideabox://ideas/{ideaId}.
func extractIdeaID(uri string) string {
	const prefix = uriScheme + "ideas/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
