package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ideabox/internal/core/domain"
)

// stubRepository records saved collections and can be told to fail.
type stubRepository struct {
	mu      sync.Mutex
	stored  []domain.Idea
	saves   int
	loadErr error
	saveErr error
}

func (r *stubRepository) LoadAll(_ context.Context) ([]domain.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	out := make([]domain.Idea, len(r.stored))
	copy(out, r.stored)
	return out, nil
}

func (r *stubRepository) SaveAll(_ context.Context, ideas []domain.Idea) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.stored = make([]domain.Idea, len(ideas))
	copy(r.stored, ideas)
	return nil
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T, repo *stubRepository) *IdeaStore {
	t.Helper()
	var store *IdeaStore
	if repo == nil {
		store = NewIdeaStore(nil)
	} else {
		store = NewIdeaStore(repo)
	}
	store.SetClock(func() time.Time { return fixedNow })
	require.NoError(t, store.Open(context.Background()))
	return store
}

func validInput(title string) domain.NewIdeaInput {
	return domain.NewIdeaInput{
		Title:       title,
		Description: "Giảm thời gian xử lý đơn",
		Category:    domain.CategoryOperations,
		Priority:    domain.PriorityMedium,
		Author:      domain.DefaultAuthor,
	}
}

func ptr[T any](v T) *T { return &v }

func TestIdeaStore_Create(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	idea, err := store.Create(ctx, validInput("  Số hoá quy trình  "))
	require.NoError(t, err)

	assert.NotEmpty(t, idea.ID)
	assert.Equal(t, "Số hoá quy trình", idea.Title)
	assert.Equal(t, domain.StatusPendingReview, idea.Status)
	assert.Equal(t, fixedNow, idea.CreatedAt)
	assert.Nil(t, idea.AIRefinement)
	assert.Nil(t, idea.ImageURL)

	got, err := store.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, idea, got)
}

func TestIdeaStore_Create_Validation(t *testing.T) {
	store := newTestStore(t, nil)

	tests := []struct {
		name   string
		mutate func(*domain.NewIdeaInput)
		field  string
	}{
		{"blank title", func(in *domain.NewIdeaInput) { in.Title = "   " }, "title"},
		{"blank description", func(in *domain.NewIdeaInput) { in.Description = "" }, "description"},
		{"blank author", func(in *domain.NewIdeaInput) { in.Author = "\t" }, "author"},
		{"bad category", func(in *domain.NewIdeaInput) { in.Category = "finance" }, "category"},
		{"bad priority", func(in *domain.NewIdeaInput) { in.Priority = "urgent" }, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput("Ý tưởng")
			tt.mutate(&in)

			_, err := store.Create(context.Background(), in)
			require.ErrorIs(t, err, domain.ErrValidation)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Errors, 1)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
		})
	}

	ideas, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ideas)
}

func TestIdeaStore_List_PreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	var want []string
	for i := range 5 {
		idea, err := store.Create(ctx, validInput(fmt.Sprintf("Ý tưởng %d", i)))
		require.NoError(t, err)
		want = append(want, idea.ID)
	}

	ideas, err := store.List(ctx)
	require.NoError(t, err)
	got := make([]string, len(ideas))
	for i := range ideas {
		got[i] = ideas[i].ID
	}
	assert.Equal(t, want, got)
}

func TestIdeaStore_List_ReturnsCopies(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	idea, err := store.Create(ctx, validInput("Ý tưởng"))
	require.NoError(t, err)
	_, err = store.Update(ctx, idea.ID, domain.IdeaPatch{AIRefinement: ptr("bản gốc")})
	require.NoError(t, err)

	ideas, err := store.List(ctx)
	require.NoError(t, err)
	ideas[0].Title = "đã sửa"
	*ideas[0].AIRefinement = "đã sửa"

	got, err := store.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ý tưởng", got.Title)
	assert.Equal(t, "bản gốc", *got.AIRefinement)
}

func TestIdeaStore_Update(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	idea, err := store.Create(ctx, validInput("Ý tưởng"))
	require.NoError(t, err)

	updated, err := store.Update(ctx, idea.ID, domain.IdeaPatch{
		Status:   ptr(domain.StatusApproved),
		Priority: ptr(domain.PriorityHigh),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	assert.Equal(t, idea.CreatedAt, updated.CreatedAt)
	assert.Equal(t, idea.ID, updated.ID)
}

func TestIdeaStore_Update_EmptyPatchIsIdentity(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	idea, err := store.Create(ctx, validInput("Ý tưởng"))
	require.NoError(t, err)

	updated, err := store.Update(ctx, idea.ID, domain.IdeaPatch{})
	require.NoError(t, err)
	assert.Equal(t, idea, updated)
}

func TestIdeaStore_Update_IsAtomic(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	idea, err := store.Create(ctx, validInput("Ý tưởng"))
	require.NoError(t, err)

	// Valid title alongside an invalid transition: neither applies.
	_, err = store.Update(ctx, idea.ID, domain.IdeaPatch{
		Title:  ptr("Tiêu đề mới"),
		Status: ptr(domain.StatusDraft),
	})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	var terr *domain.StateTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, domain.StatusPendingReview, terr.From)
	assert.Equal(t, domain.StatusDraft, terr.To)

	got, err := store.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, idea, got)
}

func TestIdeaStore_Update_RejectsEmptyTitle(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	idea, err := store.Create(ctx, validInput("Ý tưởng"))
	require.NoError(t, err)

	_, err = store.Update(ctx, idea.ID, domain.IdeaPatch{Title: ptr(" ")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestIdeaStore_Update_NotFound(t *testing.T) {
	store := newTestStore(t, nil)

	_, err := store.Update(context.Background(), "missing", domain.IdeaPatch{Title: ptr("x")})
	require.ErrorIs(t, err, domain.ErrNotFound)

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
}

func TestIdeaStore_LifecycleWalk(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	idea, err := store.Create(ctx, validInput("Ý tưởng"))
	require.NoError(t, err)

	steps := []domain.Status{domain.StatusApproved, domain.StatusInProgress}
	for _, st := range steps {
		idea, err = store.Update(ctx, idea.ID, domain.IdeaPatch{Status: ptr(st)})
		require.NoError(t, err)
		assert.Equal(t, st, idea.Status)
	}

	_, err = store.Update(ctx, idea.ID, domain.IdeaPatch{Status: ptr(domain.StatusApproved)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestIdeaStore_Delete(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	first, err := store.Create(ctx, validInput("Một"))
	require.NoError(t, err)
	second, err := store.Create(ctx, validInput("Hai"))
	require.NoError(t, err)
	third, err := store.Create(ctx, validInput("Ba"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, second.ID))

	_, err = store.Get(ctx, second.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Repeated delete is an error.
	assert.ErrorIs(t, store.Delete(ctx, second.ID), domain.ErrNotFound)

	ideas, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, ideas, 2)
	assert.Equal(t, first.ID, ideas[0].ID)
	assert.Equal(t, third.ID, ideas[1].ID)

	// Remaining positions still resolve.
	got, err := store.Get(ctx, third.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ba", got.Title)
}

func TestIdeaStore_IDsAreNeverReused(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	ids := []string{"a", "a", "b", "a", "b", "c"}
	store.id = func() string {
		next := ids[0]
		ids = ids[1:]
		return next
	}

	first, err := store.Create(ctx, validInput("Một"))
	require.NoError(t, err)
	assert.Equal(t, "a", first.ID)

	require.NoError(t, store.Delete(ctx, first.ID))

	second, err := store.Create(ctx, validInput("Hai"))
	require.NoError(t, err)
	assert.Equal(t, "b", second.ID)

	third, err := store.Create(ctx, validInput("Ba"))
	require.NoError(t, err)
	assert.Equal(t, "c", third.ID)
}

func TestIdeaStore_Search(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	chatbot, err := store.Create(ctx, validInput("Chatbot CSKH"))
	require.NoError(t, err)
	_, err = store.Create(ctx, validInput("Kho dữ liệu"))
	require.NoError(t, err)
	_, err = store.Update(ctx, chatbot.ID, domain.IdeaPatch{Status: ptr(domain.StatusApproved)})
	require.NoError(t, err)

	found, err := store.Search(ctx, domain.IdeaFilter{Search: "CHATBOT"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, chatbot.ID, found[0].ID)

	pending := domain.StatusPendingReview
	found, err = store.Search(ctx, domain.IdeaFilter{Status: &pending, Search: "chatbot"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestIdeaStore_Stats(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	inputs := []domain.Category{domain.CategoryHR, domain.CategoryTechnology, domain.CategoryHR}
	var last domain.Idea
	for i, c := range inputs {
		in := validInput(fmt.Sprintf("Ý tưởng %d", i))
		in.Category = c
		idea, err := store.Create(ctx, in)
		require.NoError(t, err)
		last = idea
	}
	_, err := store.Update(ctx, last.ID, domain.IdeaPatch{Status: ptr(domain.StatusApproved)})
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Summary.Total)
	assert.Equal(t, 2, stats.Summary.Pending)
	assert.Equal(t, 1, stats.Summary.Approved)
	assert.Len(t, stats.ByStatus, len(domain.AllStatuses()))
	assert.Equal(t, 0, stats.ByStatus[domain.StatusDraft])
	assert.Equal(t, []domain.CategoryCount{
		{Category: domain.CategoryHR, Count: 2},
		{Category: domain.CategoryTechnology, Count: 1},
	}, stats.ByCategory)
}

func TestIdeaStore_Open_LoadsRepository(t *testing.T) {
	repo := &stubRepository{stored: []domain.Idea{
		{ID: "1", Title: "Một", Status: domain.StatusDraft},
		{ID: "2", Title: "Hai", Status: domain.StatusApproved},
	}}
	store := newTestStore(t, repo)

	ideas, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ideas, 2)
	assert.Equal(t, "1", ideas[0].ID)

	got, err := store.Get(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Hai", got.Title)
}

func TestIdeaStore_Open_Errors(t *testing.T) {
	t.Run("load failure", func(t *testing.T) {
		store := NewIdeaStore(&stubRepository{loadErr: errors.New("corrupt")})
		assert.ErrorContains(t, store.Open(context.Background()), "corrupt")
	})

	t.Run("duplicate ids", func(t *testing.T) {
		store := NewIdeaStore(&stubRepository{stored: []domain.Idea{{ID: "1"}, {ID: "1"}}})
		assert.ErrorContains(t, store.Open(context.Background()), "duplicate")
	})
}

func TestIdeaStore_WritesThrough(t *testing.T) {
	repo := &stubRepository{}
	store := newTestStore(t, repo)
	ctx := context.Background()

	idea, err := store.Create(ctx, validInput("Ý tưởng"))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saves)
	require.Len(t, repo.stored, 1)
	assert.Equal(t, idea.ID, repo.stored[0].ID)

	_, err = store.Update(ctx, idea.ID, domain.IdeaPatch{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saves, "empty patch should not save")

	_, err = store.Update(ctx, idea.ID, domain.IdeaPatch{Status: ptr(domain.StatusApproved)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, repo.stored[0].Status)

	require.NoError(t, store.Delete(ctx, idea.ID))
	assert.Empty(t, repo.stored)
}

func TestIdeaStore_FailedSaveLeavesMemoryUnchanged(t *testing.T) {
	repo := &stubRepository{}
	store := newTestStore(t, repo)
	ctx := context.Background()

	idea, err := store.Create(ctx, validInput("Ý tưởng"))
	require.NoError(t, err)

	repo.saveErr = errors.New("disk full")

	_, err = store.Create(ctx, validInput("Khác"))
	assert.ErrorContains(t, err, "disk full")

	_, err = store.Update(ctx, idea.ID, domain.IdeaPatch{Status: ptr(domain.StatusApproved)})
	assert.ErrorContains(t, err, "disk full")

	assert.ErrorContains(t, store.Delete(ctx, idea.ID), "disk full")

	ideas, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, domain.StatusPendingReview, ideas[0].Status)
}

func TestIdeaStore_ConcurrentCreates(t *testing.T) {
	store := newTestStore(t, &stubRepository{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create(ctx, validInput(fmt.Sprintf("Ý tưởng %d", i)))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ideas, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ideas, 20)

	seen := make(map[string]bool)
	for _, idea := range ideas {
		assert.False(t, seen[idea.ID], "duplicate id %s", idea.ID)
		seen[idea.ID] = true
	}
}
