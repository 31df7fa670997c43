package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ideabox/internal/adapters/driving/cli"
	"github.com/custodia-labs/ideabox/internal/core/domain"
)

func submit(t *testing.T, svc *cli.Services, title string) domain.Idea {
	t.Helper()
	idea, err := svc.Ideas.Create(context.Background(), domain.NewIdeaInput{
		Title:       title,
		Description: "Description of " + title,
		Category:    domain.CategoryProduct,
		Priority:    domain.PriorityLow,
		Author:      "Hoa",
	})
	require.NoError(t, err)
	return idea
}

func TestBootstrap_SQLitePersistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	first, err := bootstrap(cli.Options{DataDir: dir})
	require.NoError(t, err)
	idea := submit(t, first, "Solar roof")
	require.NoError(t, first.Close())

	assert.FileExists(t, filepath.Join(dir, "data", "ideas.db"))

	second, err := bootstrap(cli.Options{DataDir: dir})
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Ideas.Get(context.Background(), idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "Solar roof", got.Title)
}

func TestBootstrap_MemoryBackend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[storage]\nbackend = \"memory\"\n"), 0o600))

	first, err := bootstrap(cli.Options{DataDir: dir})
	require.NoError(t, err)
	submit(t, first, "Solar roof")
	require.NoError(t, first.Close())

	assert.NoFileExists(t, filepath.Join(dir, "data", "ideas.db"))

	second, err := bootstrap(cli.Options{DataDir: dir})
	require.NoError(t, err)
	defer second.Close()

	ideas, err := second.Ideas.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ideas)
}

func TestBootstrap_EnrichmentDisabledWithoutProviders(t *testing.T) {
	svc, err := bootstrap(cli.Options{DataDir: t.TempDir()})
	require.NoError(t, err)
	defer svc.Close()

	idea := submit(t, svc, "Solar roof")

	_, err = svc.Enrichment.Refine(context.Background(), idea.ID)
	assert.ErrorIs(t, err, domain.ErrEnrichmentUnavailable)

	_, err = svc.Enrichment.GenerateImage(context.Background(), idea.ID)
	assert.ErrorIs(t, err, domain.ErrEnrichmentUnavailable)
}

func TestBootstrap_PromptWatcherStopsWithContext(t *testing.T) {
	dir := t.TempDir()
	svc, err := bootstrap(cli.Options{DataDir: dir})
	require.NoError(t, err)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.PromptWatcher.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
	assert.DirExists(t, filepath.Join(dir, "prompts"))
}
