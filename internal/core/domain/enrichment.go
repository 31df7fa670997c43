package domain

import "time"

// EnrichmentKind identifies one of the independent AI enrichments.
type EnrichmentKind string

// Available enrichment kinds.
const (
	// EnrichmentRefine rewrites the idea as a business proposal.
	EnrichmentRefine EnrichmentKind = "refine"

	// EnrichmentImage produces an illustration of the idea.
	EnrichmentImage EnrichmentKind = "image"
)

// AllEnrichmentKinds returns every enrichment kind.
func AllEnrichmentKinds() []EnrichmentKind {
	return []EnrichmentKind{EnrichmentRefine, EnrichmentImage}
}

// IsValid returns true if the kind is recognised.
func (k EnrichmentKind) IsValid() bool {
	switch k {
	case EnrichmentRefine, EnrichmentImage:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k EnrichmentKind) String() string { return string(k) }

// EnrichmentState is the observable request state of an (idea, kind) pair.
type EnrichmentState string

// Available enrichment states.
const (
	EnrichmentIdle    EnrichmentState = "idle"
	EnrichmentLoading EnrichmentState = "loading"
	EnrichmentFailed  EnrichmentState = "failed"
)

// EnrichmentStatus is a snapshot of an (idea, kind) request state.
type EnrichmentStatus struct {
	IdeaID string
	Kind   EnrichmentKind
	State  EnrichmentState

	// Err is set when State is EnrichmentFailed.
	Err error

	// StartedAt is when the outstanding or last failed request began.
	StartedAt time.Time
}

// Loading reports whether a request is in flight.
func (s EnrichmentStatus) Loading() bool { return s.State == EnrichmentLoading }

// EnrichmentResult is delivered once per request when it completes.
type EnrichmentResult struct {
	IdeaID string
	Kind   EnrichmentKind

	// Idea is the updated record. Nil when nothing was stored: the request
	// failed, the service produced no image, or the idea was deleted.
	Idea *Idea

	// Err is the *ServiceError when the service call failed.
	Err error

	// Discarded is true when the idea was deleted while the request was in flight.
	Discarded bool
}
