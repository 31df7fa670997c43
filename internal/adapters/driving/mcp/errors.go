// Package mcp provides an MCP (Model Context Protocol) server adapter for Ideabox.
// It lets AI assistants list, submit, and review ideas.
package mcp

import "errors"

// ErrMissingIdeaService is returned when the idea service is not provided.
var ErrMissingIdeaService = errors.New("mcp: idea service is required")
