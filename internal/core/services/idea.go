package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ideabox/internal/core/domain"
	"github.com/custodia-labs/ideabox/internal/core/ports/driven"
	"github.com/custodia-labs/ideabox/internal/core/ports/driving"
	"github.com/custodia-labs/ideabox/internal/logger"
)

// Ensure IdeaStore implements the interface.
var _ driving.IdeaService = (*IdeaStore)(nil)

// IdeaStore owns the idea collection. It is constructed once and injected
// into every consumer; there is no package-level state.
//
// Mutations are written through to the repository before they are committed
// in memory, so a failed save leaves both sides unchanged.
type IdeaStore struct {
	repo driven.IdeaRepository
	log  *slog.Logger
	now  func() time.Time
	id   func() string

	mu      sync.RWMutex
	ideas   []domain.Idea
	index   map[string]int
	retired map[string]struct{}
}

// NewIdeaStore creates a store backed by repo. A nil repo keeps ideas in
// memory only. Call Open to load previously saved ideas.
func NewIdeaStore(repo driven.IdeaRepository) *IdeaStore {
	return &IdeaStore{
		repo:    repo,
		log:     logger.With("service", "ideas"),
		now:     time.Now,
		id:      func() string { return uuid.New().String() },
		index:   make(map[string]int),
		retired: make(map[string]struct{}),
	}
}

// SetClock overrides the creation timestamp source.
func (s *IdeaStore) SetClock(now func() time.Time) {
	s.now = now
}

// Open replaces the in-memory collection with the repository contents.
func (s *IdeaStore) Open(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	loaded, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load ideas: %w", err)
	}

	ideas := make([]domain.Idea, 0, len(loaded))
	index := make(map[string]int, len(loaded))
	for i := range loaded {
		if _, dup := index[loaded[i].ID]; dup {
			return fmt.Errorf("load ideas: duplicate id %q", loaded[i].ID)
		}
		index[loaded[i].ID] = len(ideas)
		ideas = append(ideas, loaded[i].Clone())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ideas = ideas
	s.index = index
	s.log.DebugContext(ctx, "opened", slog.Int("count", len(ideas)))
	return nil
}

// Create submits a new idea with status pending_review.
func (s *IdeaStore) Create(ctx context.Context, input domain.NewIdeaInput) (domain.Idea, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Author = strings.TrimSpace(input.Author)
	if err := input.Validate(); err != nil {
		return domain.Idea{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idea := domain.Idea{
		ID:          s.nextID(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.StatusPendingReview,
		Author:      input.Author,
		CreatedAt:   s.now().UTC(),
	}

	next := make([]domain.Idea, len(s.ideas), len(s.ideas)+1)
	copy(next, s.ideas)
	next = append(next, idea)
	if err := s.save(ctx, next); err != nil {
		return domain.Idea{}, err
	}

	s.ideas = next
	s.index[idea.ID] = len(next) - 1
	s.log.DebugContext(ctx, "created", slog.String("id", idea.ID), slog.String("category", string(idea.Category)))
	return idea.Clone(), nil
}

// Get retrieves an idea by ID.
func (s *IdeaStore) Get(_ context.Context, id string) (domain.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[id]
	if !ok {
		return domain.Idea{}, &domain.NotFoundError{ID: id}
	}
	return s.ideas[pos].Clone(), nil
}

// Update merges patch into the idea identified by id.
func (s *IdeaStore) Update(ctx context.Context, id string, patch domain.IdeaPatch) (domain.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return domain.Idea{}, &domain.NotFoundError{ID: id}
	}
	updated, err := patch.Apply(s.ideas[pos])
	if err != nil {
		return domain.Idea{}, err
	}
	if patch.IsEmpty() {
		return updated, nil
	}

	next := make([]domain.Idea, len(s.ideas))
	copy(next, s.ideas)
	next[pos] = updated
	if err := s.save(ctx, next); err != nil {
		return domain.Idea{}, err
	}

	s.ideas = next
	s.log.DebugContext(ctx, "updated", slog.String("id", id), slog.String("status", string(updated.Status)))
	return updated.Clone(), nil
}

// Delete removes the idea. Deleting twice is an error.
func (s *IdeaStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return &domain.NotFoundError{ID: id}
	}

	next := make([]domain.Idea, 0, len(s.ideas)-1)
	next = append(next, s.ideas[:pos]...)
	next = append(next, s.ideas[pos+1:]...)
	if err := s.save(ctx, next); err != nil {
		return err
	}

	s.ideas = next
	s.retired[id] = struct{}{}
	s.reindex()
	s.log.DebugContext(ctx, "deleted", slog.String("id", id))
	return nil
}

// List returns every idea in insertion order.
func (s *IdeaStore) List(_ context.Context) ([]domain.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Idea, len(s.ideas))
	for i := range s.ideas {
		out[i] = s.ideas[i].Clone()
	}
	return out, nil
}

// Search returns the ideas matching filter, in insertion order.
func (s *IdeaStore) Search(ctx context.Context, filter domain.IdeaFilter) ([]domain.Idea, error) {
	ideas, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Filter(ideas, filter), nil
}

// Stats aggregates a fresh snapshot of the collection.
func (s *IdeaStore) Stats(ctx context.Context) (*driving.Stats, error) {
	ideas, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return &driving.Stats{
		Summary:    domain.Summarize(ideas),
		ByStatus:   domain.StatusCounts(ideas),
		ByCategory: domain.CategoryHistogram(ideas),
	}, nil
}

// save writes the candidate collection (caller must hold lock).
func (s *IdeaStore) save(ctx context.Context, ideas []domain.Idea) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveAll(ctx, ideas); err != nil {
		s.log.WarnContext(ctx, "save failed", slog.Any("err", err))
		return fmt.Errorf("save ideas: %w", err)
	}
	return nil
}

// nextID returns an ID not used by any live or deleted idea (caller must hold lock).
func (s *IdeaStore) nextID() string {
	for {
		id := s.id()
		if _, live := s.index[id]; live {
			continue
		}
		if _, gone := s.retired[id]; gone {
			continue
		}
		return id
	}
}

// reindex rebuilds the position index (caller must hold lock).
func (s *IdeaStore) reindex() {
	s.index = make(map[string]int, len(s.ideas))
	for i := range s.ideas {
		s.index[s.ideas[i].ID] = i
	}
}
