package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ideabox/internal/logger"
)

const (
	// Name is the implementation name reported to MCP clients.
	Name = "ideabox"

	// Version is the MCP server version.
	Version = "0.1.0"

	shutdownTimeout = 5 * time.Second
)

// Server exposes the idea collection to MCP clients. Tools read and change
// ideas; the ideabox://ideas resources give clients a read-only view.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer validates ports and registers the idea tools and resources.
// refine_idea is only offered when ports.Enrichment is set.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: Name, Version: Version},
			&mcp.ServerOptions{
				Instructions: instructions(ports),
				Logger:       logger.With("component", "mcp"),
			},
		),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions describes the workflow to the connected assistant.
func instructions(ports *Ports) string {
	text := "Ideas move draft -> pending_review -> approved -> in_progress; " +
		"pending_review may also go straight to in_progress. " +
		"Use change_status for review decisions and idea_stats for a summary."
	if ports.Enrichment != nil {
		text += " refine_idea rewrites an idea as a business proposal and waits for the result."
	}
	return text
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is
// cancelled. A clean shutdown returns nil.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp http shutdown", "err", err)
		}
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
