package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ideabox/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ideabox/internal/core/domain"
	"github.com/custodia-labs/ideabox/internal/core/services"
)

// pngDataURI is the PNG signature as a data URI.
const pngDataURI = "data:image/png;base64,iVBORw0KGgo="

type stubRefiner struct{ err error }

func (r *stubRefiner) RefineText(_ context.Context, title, _ string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "Proposal for " + title, nil
}

type stubImages struct{ uri string }

func (g *stubImages) GenerateImage(context.Context, string, string) (string, error) {
	return g.uri, nil
}

type testServices struct {
	ideas   *services.IdeaStore
	config  *memory.ConfigStore
	refiner *stubRefiner
	images  *stubImages
}

// setupTestServices installs in-memory services and returns a cleanup function.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		ideas:   services.NewIdeaStore(nil),
		config:  memory.NewConfigStore(),
		refiner: &stubRefiner{},
		images:  &stubImages{uri: pngDataURI},
	}
	require.NoError(t, ts.ideas.Open(context.Background()))

	enrichment := services.NewEnrichmentService(ts.ideas, ts.refiner, ts.images)

	ideaService = ts.ideas
	enrichmentService = enrichment
	settingsService = services.NewSettingsService(ts.config, nil)
	t.Cleanup(func() {
		enrichment.Wait()
		ideaService = nil
		enrichmentService = nil
		settingsService = nil
	})
	return ts
}

func (ts *testServices) seed(t *testing.T, title string) domain.Idea {
	t.Helper()
	idea, err := ts.ideas.Create(context.Background(), domain.NewIdeaInput{
		Title:       title,
		Description: "Description of " + title,
		Category:    domain.CategoryOperations,
		Priority:    domain.PriorityHigh,
		Author:      "Minh",
	})
	require.NoError(t, err)
	return idea
}

// execute runs the root command with fresh flag values and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores defaults; cobra keeps parsed values between runs.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commandNames := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "idea")
	assert.Contains(t, commandNames, "stats")
	assert.Contains(t, commandNames, "settings")
	assert.Contains(t, commandNames, "mcp")
	assert.Contains(t, commandNames, "version")
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("data-dir"))
}

func TestSetupServices_UsesBootstrap(t *testing.T) {
	store := services.NewIdeaStore(nil)
	var got Options
	closed := false

	bootstrap = func(opts Options) (*Services, error) {
		got = opts
		return &Services{
			Ideas:    store,
			Settings: services.NewSettingsService(memory.NewConfigStore(), nil),
			Close: func() error {
				closed = true
				return nil
			},
		}, nil
	}
	t.Cleanup(func() {
		bootstrap = nil
		ideaService = nil
		settingsService = nil
		closeServices = nil
	})

	out, err := execute(t, "--data-dir", "/tmp/ideabox-test", "idea", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No ideas found.")
	assert.Equal(t, "/tmp/ideabox-test", got.DataDir)

	shutdown()
	assert.True(t, closed)
}

func TestSetupServices_BootstrapError(t *testing.T) {
	bootstrap = func(Options) (*Services, error) {
		return nil, errors.New("database locked")
	}
	t.Cleanup(func() { bootstrap = nil })

	_, err := execute(t, "stats")
	assert.ErrorContains(t, err, "database locked")
}

func TestSetupServices_SkippedForVersion(t *testing.T) {
	bootstrap = func(Options) (*Services, error) {
		t.Fatal("bootstrap must not run for version")
		return nil, nil
	}
	t.Cleanup(func() { bootstrap = nil })

	_, err := execute(t, "version")
	assert.NoError(t, err)
}
