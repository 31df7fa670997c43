package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ideabox/internal/adapters/driving/mcp"
	"github.com/custodia-labs/ideabox/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can read and
submit ideas.

By default, the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead, e.g. for the MCP Inspector.

Prompt templates in ~/.ideabox/prompts are reloaded when edited while the
server runs.

Examples:
  # Stdio mode (default)
  ideabox mcp

  # HTTP mode
  ideabox mcp --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "ideabox": {
        "command": "/path/to/ideabox",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Ideas:      ideaService,
		Enrichment: enrichmentService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if promptWatcher != nil {
		go func() {
			if err := promptWatcher.Run(ctx); err != nil {
				logger.Warn("prompt watcher stopped", "err", err)
			}
		}()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
