package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/ideabox/internal/adapters/driven/ai"
	"github.com/custodia-labs/ideabox/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ideabox/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ideabox/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ideabox/internal/adapters/driving/cli"
	"github.com/custodia-labs/ideabox/internal/core/domain"
	"github.com/custodia-labs/ideabox/internal/core/ports/driven"
	"github.com/custodia-labs/ideabox/internal/core/services"
	"github.com/custodia-labs/ideabox/internal/logger"
)

// bootstrap wires the adapters into the core services.
//
// Layout under the base directory (default ~/.ideabox):
//
//	config.toml     settings
//	prompts/*.txt   prompt templates
//	data/ideas.db   idea collection (sqlite backend)
func bootstrap(opts cli.Options) (*cli.Services, error) {
	baseDir := opts.DataDir
	if baseDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}

	configStore, err := file.NewConfigStore(baseDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	logger.Section("Startup")
	logger.Debug("settings loaded", "config", configStore.Path(), "storage", settings.Storage.String())

	var closers []func() error

	repo, closeRepo, err := openRepository(settings.Storage, filepath.Join(baseDir, "data"))
	if err != nil {
		return nil, err
	}
	if closeRepo != nil {
		closers = append(closers, closeRepo)
	}

	ideas := services.NewIdeaStore(repo)
	if err := ideas.Open(context.Background()); err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("loading ideas: %w", err)
	}

	promptDir := filepath.Join(baseDir, "prompts")
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("prompt store: %w", err)
	}

	aiServices := ai.Init(settings, prompts)
	for _, w := range aiServices.Warnings {
		logger.Warn(w)
	}
	closers = append(closers, func() error {
		aiServices.Close()
		return nil
	})

	return &cli.Services{
		Ideas:         ideas,
		Enrichment:    services.NewEnrichmentService(ideas, aiServices.Refiner, aiServices.Images),
		Settings:      settingsService,
		PromptWatcher: &promptWatcher{store: prompts, dir: promptDir},
		Close:         func() error { return closeAll(closers) },
	}, nil
}

// openRepository returns the persistence backend and its close function.
func openRepository(backend domain.StorageBackend, dataDir string) (driven.IdeaRepository, func() error, error) {
	switch backend {
	case domain.StorageMemory:
		return memory.NewIdeaRepository(), nil, nil
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		logger.Debug("database opened", "path", store.Path())
		return store.IdeaRepository(), store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// promptWatcher starts the file watcher only when a command runs it.
type promptWatcher struct {
	store driven.PromptStore
	dir   string
}

func (p *promptWatcher) Run(ctx context.Context) error {
	w, err := file.NewPromptWatcher(p.store, p.dir)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
