package driven

import (
	"context"

	"github.com/custodia-labs/ideabox/internal/core/domain"
)

// IdeaRepository persists the idea collection as a whole.
// The core calls LoadAll once when a store is opened and SaveAll after
// every mutation; the order of the slice is the insertion order.
type IdeaRepository interface {
	// LoadAll returns every stored idea in insertion order.
	// An empty repository returns an empty slice and no error.
	LoadAll(ctx context.Context) ([]domain.Idea, error)

	// SaveAll replaces the stored collection with ideas.
	SaveAll(ctx context.Context, ideas []domain.Idea) error
}
