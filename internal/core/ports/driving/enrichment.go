package driving

import (
	"context"

	"github.com/custodia-labs/ideabox/internal/core/domain"
)

// EnrichmentOrchestrator runs AI enrichment requests against ideas.
//
// At most one request per (idea, kind) is outstanding at a time. Requests
// run in the background; the returned channel receives exactly one result
// and is then closed.
type EnrichmentOrchestrator interface {
	// Refine asks the text service to rewrite the idea as a proposal.
	Refine(ctx context.Context, ideaID string) (<-chan domain.EnrichmentResult, error)

	// GenerateImage asks the image service for an illustration. Calling it
	// again when an image exists regenerates it.
	GenerateImage(ctx context.Context, ideaID string) (<-chan domain.EnrichmentResult, error)

	// Status returns the request state for an (idea, kind) pair.
	Status(ideaID string, kind domain.EnrichmentKind) domain.EnrichmentStatus

	// Statuses returns the request state for every kind of an idea.
	Statuses(ideaID string) []domain.EnrichmentStatus

	// Forget drops the recorded failures for an idea, typically after it is deleted.
	// Requests already in flight still deliver their result.
	Forget(ideaID string)

	// Wait blocks until no request is in flight.
	Wait()
}
