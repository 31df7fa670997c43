package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ideabox/internal/core/domain"
	"github.com/custodia-labs/ideabox/internal/core/services"
)

// stubRefiner returns a fixed proposal or error. When release is set the
// call signals started and blocks until release is closed.
type stubRefiner struct {
	text    string
	err     error
	started chan struct{}
	release chan struct{}
}

func (r *stubRefiner) RefineText(_ context.Context, title, _ string) (string, error) {
	if r.release != nil {
		close(r.started)
		<-r.release
	}
	if r.err != nil {
		return "", r.err
	}
	return r.text + ": " + title, nil
}

// failingIdeas wraps a store and fails every read.
type failingIdeas struct {
	*services.IdeaStore
}

var errStoreDown = errors.New("store down")

func (f failingIdeas) List(context.Context) ([]domain.Idea, error) { return nil, errStoreDown }
func (f failingIdeas) Search(context.Context, domain.IdeaFilter) ([]domain.Idea, error) {
	return nil, errStoreDown
}

func newTestServer(t *testing.T, refiner *stubRefiner) (*Server, *services.IdeaStore) {
	t.Helper()

	store := services.NewIdeaStore(nil)
	require.NoError(t, store.Open(context.Background()))

	ports := &Ports{Ideas: store}
	if refiner != nil {
		enrichment := services.NewEnrichmentService(store, refiner, nil)
		t.Cleanup(enrichment.Wait)
		ports.Enrichment = enrichment
	}

	server, err := NewServer(ports)
	require.NoError(t, err)
	return server, store
}

func seedIdea(t *testing.T, store *services.IdeaStore, title string, category domain.Category) domain.Idea {
	t.Helper()
	idea, err := store.Create(context.Background(), domain.NewIdeaInput{
		Title:       title,
		Description: "Description of " + title,
		Category:    category,
		Priority:    domain.PriorityMedium,
		Author:      "Lan",
	})
	require.NoError(t, err)
	return idea
}
