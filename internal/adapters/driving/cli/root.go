// Package cli provides the ideabox command-line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ideabox/internal/core/ports/driving"
	"github.com/custodia-labs/ideabox/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	verbose bool
	dataDir string
)

// Services used by commands. Set by the bootstrap before a command runs.
var (
	ideaService       driving.IdeaService
	enrichmentService driving.EnrichmentOrchestrator
	settingsService   driving.SettingsService
	promptWatcher     Runner
	closeServices     func() error
)

// Runner is a background task that lives as long as a long-running command.
type Runner interface {
	Run(ctx context.Context) error
}

// Options are the global flag values handed to the bootstrap.
type Options struct {
	// DataDir overrides the default data directory (~/.ideabox).
	DataDir string
}

// Services are the ports the commands operate on.
type Services struct {
	Ideas      driving.IdeaService
	Enrichment driving.EnrichmentOrchestrator
	Settings   driving.SettingsService

	// PromptWatcher reloads prompt templates while the MCP server runs. Optional.
	PromptWatcher Runner

	// Close releases storage and AI clients. Optional.
	Close func() error
}

// Bootstrap builds the services from the global options.
type Bootstrap func(opts Options) (*Services, error)

var bootstrap Bootstrap

var rootCmd = &cobra.Command{
	Use:   "ideabox",
	Short: "Collect, review and enrich innovation ideas",
	Long: `Ideabox tracks employee improvement ideas through review and delivery.

Submit ideas, move them through the review workflow, and ask an AI provider
to turn a rough idea into a business proposal or an illustration.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default ~/.ideabox)")
}

// Execute runs the root command with services built by b.
func Execute(b Bootstrap) error {
	bootstrap = b
	defer shutdown()
	return rootCmd.Execute()
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || ideaService != nil || cmd == versionCmd {
		return nil
	}

	svc, err := bootstrap(Options{DataDir: dataDir})
	if err != nil {
		return err
	}
	if svc == nil {
		return errors.New("bootstrap returned no services")
	}

	ideaService = svc.Ideas
	enrichmentService = svc.Enrichment
	settingsService = svc.Settings
	promptWatcher = svc.PromptWatcher
	closeServices = svc.Close
	return nil
}

func shutdown() {
	if enrichmentService != nil {
		enrichmentService.Wait()
	}
	if closeServices != nil {
		if err := closeServices(); err != nil {
			logger.Warn("closing services", "err", err)
		}
		closeServices = nil
	}
}
