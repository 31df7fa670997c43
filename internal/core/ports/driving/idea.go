package driving

import (
	"context"

	"github.com/custodia-labs/ideabox/internal/core/domain"
)

// IdeaService is the single source of truth for the idea collection.
// Every operation completes fully before returning.
type IdeaService interface {
	// Create submits a new idea. The result has status pending_review and
	// no enrichments.
	Create(ctx context.Context, input domain.NewIdeaInput) (domain.Idea, error)

	// Get retrieves an idea by ID.
	Get(ctx context.Context, id string) (domain.Idea, error)

	// Update merges patch into the idea. Either every supplied field applies
	// or none do.
	Update(ctx context.Context, id string, patch domain.IdeaPatch) (domain.Idea, error)

	// Delete removes the idea permanently. Deleting an unknown or already
	// deleted ID is an error.
	Delete(ctx context.Context, id string) error

	// List returns every idea in insertion order.
	List(ctx context.Context) ([]domain.Idea, error)

	// Search returns the ideas matching filter, in insertion order.
	Search(ctx context.Context, filter domain.IdeaFilter) ([]domain.Idea, error)

	// Stats aggregates the current collection.
	Stats(ctx context.Context) (*Stats, error)
}

// Stats is the reporting view of the collection, recomputed on every call.
type Stats struct {
	Summary    domain.Summary
	ByStatus   map[domain.Status]int
	ByCategory []domain.CategoryCount
}
