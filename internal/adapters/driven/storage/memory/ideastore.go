package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/ideabox/internal/core/domain"
	"github.com/custodia-labs/ideabox/internal/core/ports/driven"
)

// Ensure IdeaRepository implements the interface.
var _ driven.IdeaRepository = (*IdeaRepository)(nil)

// IdeaRepository is an in-memory implementation of driven.IdeaRepository.
// The collection is lost when the process exits.
type IdeaRepository struct {
	mu    sync.RWMutex
	ideas []domain.Idea
}

// NewIdeaRepository creates a new in-memory idea repository.
func NewIdeaRepository() *IdeaRepository {
	return &IdeaRepository{}
}

// LoadAll returns copies of every stored idea in insertion order.
func (r *IdeaRepository) LoadAll(_ context.Context) ([]domain.Idea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneIdeas(r.ideas), nil
}

// SaveAll replaces the stored collection.
func (r *IdeaRepository) SaveAll(_ context.Context, ideas []domain.Idea) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ideas = cloneIdeas(ideas)
	return nil
}

func cloneIdeas(ideas []domain.Idea) []domain.Idea {
	out := make([]domain.Idea, len(ideas))
	for i := range ideas {
		out[i] = ideas[i].Clone()
	}
	return out
}
