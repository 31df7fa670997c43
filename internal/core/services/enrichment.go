package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/ideabox/internal/core/domain"
	"github.com/custodia-labs/ideabox/internal/core/ports/driven"
	"github.com/custodia-labs/ideabox/internal/core/ports/driving"
	"github.com/custodia-labs/ideabox/internal/logger"
)

// Ensure EnrichmentService implements the interface.
var _ driving.EnrichmentOrchestrator = (*EnrichmentService)(nil)

type enrichmentKey struct {
	ideaID string
	kind   domain.EnrichmentKind
}

// EnrichmentService runs refinement and image requests in the background
// and merges their results into the idea store.
//
// Each (idea, kind) pair has at most one request outstanding; a second
// request for the same pair is rejected rather than queued. Results for an
// idea deleted while the request was in flight are discarded.
type EnrichmentService struct {
	ideas   driving.IdeaService
	refiner driven.TextRefiner
	images  driven.ImageGenerator
	log     *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	states map[enrichmentKey]domain.EnrichmentStatus
	wg     sync.WaitGroup
}

// NewEnrichmentService creates an orchestrator. Either collaborator may be
// nil, in which case requests of that kind fail with ErrEnrichmentUnavailable.
func NewEnrichmentService(
	ideas driving.IdeaService,
	refiner driven.TextRefiner,
	images driven.ImageGenerator,
) *EnrichmentService {
	return &EnrichmentService{
		ideas:   ideas,
		refiner: refiner,
		images:  images,
		log:     logger.With("service", "enrichment"),
		now:     time.Now,
		states:  make(map[enrichmentKey]domain.EnrichmentStatus),
	}
}

// Refine asks the text service to rewrite the idea as a proposal.
func (s *EnrichmentService) Refine(ctx context.Context, ideaID string) (<-chan domain.EnrichmentResult, error) {
	if s.refiner == nil {
		return nil, fmt.Errorf("refine: %w", domain.ErrEnrichmentUnavailable)
	}
	return s.start(ctx, ideaID, domain.EnrichmentRefine, func(ctx context.Context, idea domain.Idea) (string, error) {
		return s.refiner.RefineText(ctx, idea.Title, idea.Description)
	})
}

// GenerateImage asks the image service for an illustration.
func (s *EnrichmentService) GenerateImage(ctx context.Context, ideaID string) (<-chan domain.EnrichmentResult, error) {
	if s.images == nil {
		return nil, fmt.Errorf("image: %w", domain.ErrEnrichmentUnavailable)
	}
	return s.start(ctx, ideaID, domain.EnrichmentImage, func(ctx context.Context, idea domain.Idea) (string, error) {
		return s.images.GenerateImage(ctx, idea.Title, idea.Description)
	})
}

// Status returns the request state for an (idea, kind) pair. Unknown and
// deleted ideas report idle.
func (s *EnrichmentService) Status(ideaID string, kind domain.EnrichmentKind) domain.EnrichmentStatus {
	idle := domain.EnrichmentStatus{IdeaID: ideaID, Kind: kind, State: domain.EnrichmentIdle}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[enrichmentKey{ideaID, kind}]
	if !ok {
		return idle
	}
	if !s.exists(ideaID) {
		s.forget(ideaID)
		return idle
	}
	return st
}

// Statuses returns the request state for every kind of an idea.
func (s *EnrichmentService) Statuses(ideaID string) []domain.EnrichmentStatus {
	kinds := domain.AllEnrichmentKinds()
	out := make([]domain.EnrichmentStatus, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, s.Status(ideaID, kind))
	}
	return out
}

// Forget drops the recorded failures for an idea.
func (s *EnrichmentService) Forget(ideaID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forget(ideaID)
}

// Wait blocks until no request is in flight.
func (s *EnrichmentService) Wait() {
	s.wg.Wait()
}

type enrichFunc func(ctx context.Context, idea domain.Idea) (string, error)

func (s *EnrichmentService) start(
	ctx context.Context,
	ideaID string,
	kind domain.EnrichmentKind,
	call enrichFunc,
) (<-chan domain.EnrichmentResult, error) {
	idea, err := s.ideas.Get(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	key := enrichmentKey{ideaID, kind}

	s.mu.Lock()
	if st, ok := s.states[key]; ok && st.Loading() {
		s.mu.Unlock()
		return nil, &domain.InProgressError{IdeaID: ideaID, Kind: kind}
	}
	s.states[key] = domain.EnrichmentStatus{
		IdeaID:    ideaID,
		Kind:      kind,
		State:     domain.EnrichmentLoading,
		StartedAt: s.now(),
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.log.DebugContext(ctx, "request started", slog.String("id", ideaID), slog.String("kind", kind.String()))

	results := make(chan domain.EnrichmentResult, 1)
	go func() {
		defer s.wg.Done()
		defer close(results)

		bg := context.WithoutCancel(ctx)
		value, callErr := call(bg, idea)
		results <- s.complete(bg, key, value, callErr)
	}()
	return results, nil
}

// complete merges a finished call into the store and settles its state.
func (s *EnrichmentService) complete(
	ctx context.Context,
	key enrichmentKey,
	value string,
	callErr error,
) domain.EnrichmentResult {
	result := domain.EnrichmentResult{IdeaID: key.ideaID, Kind: key.kind}

	if callErr != nil {
		result.Err = &domain.ServiceError{Kind: key.kind, Err: callErr}
		return s.fail(ctx, key, result)
	}

	if key.kind == domain.EnrichmentImage && value == "" {
		s.log.InfoContext(ctx, "no image produced", slog.String("id", key.ideaID))
		return s.settle(key, result)
	}

	var patch domain.IdeaPatch
	switch key.kind {
	case domain.EnrichmentRefine:
		patch.AIRefinement = &value
	case domain.EnrichmentImage:
		patch.ImageURL = &value
	}

	updated, err := s.ideas.Update(ctx, key.ideaID, patch)
	if errors.Is(err, domain.ErrNotFound) {
		return s.discard(ctx, key, result)
	}
	if err != nil {
		result.Err = err
		return s.fail(ctx, key, result)
	}

	s.log.InfoContext(ctx, "request finished", slog.String("id", key.ideaID), slog.String("kind", key.kind.String()))
	result.Idea = &updated
	return s.settle(key, result)
}

func (s *EnrichmentService) fail(ctx context.Context, key enrichmentKey, result domain.EnrichmentResult) domain.EnrichmentResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists(key.ideaID) {
		delete(s.states, key)
		s.forget(key.ideaID)
		return s.discarded(ctx, result)
	}

	st := s.states[key]
	st.State = domain.EnrichmentFailed
	st.Err = result.Err
	s.states[key] = st

	s.log.WarnContext(ctx, "request failed",
		slog.String("id", key.ideaID),
		slog.String("kind", key.kind.String()),
		slog.Any("err", result.Err),
	)
	return result
}

func (s *EnrichmentService) discard(ctx context.Context, key enrichmentKey, result domain.EnrichmentResult) domain.EnrichmentResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	s.forget(key.ideaID)
	return s.discarded(ctx, result)
}

func (s *EnrichmentService) discarded(ctx context.Context, result domain.EnrichmentResult) domain.EnrichmentResult {
	s.log.DebugContext(ctx, "idea deleted, result discarded",
		slog.String("id", result.IdeaID),
		slog.String("kind", result.Kind.String()),
	)
	return domain.EnrichmentResult{IdeaID: result.IdeaID, Kind: result.Kind, Discarded: true}
}

func (s *EnrichmentService) settle(key enrichmentKey, result domain.EnrichmentResult) domain.EnrichmentResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return result
}

// exists reports whether the idea is still in the store.
func (s *EnrichmentService) exists(ideaID string) bool {
	_, err := s.ideas.Get(context.Background(), ideaID)
	return err == nil
}

// forget removes the settled states for ideaID (caller must hold lock).
// Loading entries stay until their request completes.
func (s *EnrichmentService) forget(ideaID string) {
	for _, kind := range domain.AllEnrichmentKinds() {
		key := enrichmentKey{ideaID, kind}
		if st, ok := s.states[key]; ok && !st.Loading() {
			delete(s.states, key)
		}
	}
}
