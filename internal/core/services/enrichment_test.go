package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ideabox/internal/core/domain"
)

// gate holds a collaborator call until the test releases it.
type gate struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	value   string
	err     error
	ctxErr  error
}

func newGate(value string, err error) *gate {
	return &gate{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
		value:   value,
		err:     err,
	}
}

func (g *gate) call(ctx context.Context) (string, error) {
	g.calls.Add(1)
	g.started <- struct{}{}
	<-g.release
	g.ctxErr = ctx.Err()
	return g.value, g.err
}

func (g *gate) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-g.started:
	case <-time.After(2 * time.Second):
		t.Fatal("collaborator was not called")
	}
}

type gateRefiner struct{ *gate }

func (r gateRefiner) RefineText(ctx context.Context, _, _ string) (string, error) {
	return r.call(ctx)
}

type gateImages struct{ *gate }

func (r gateImages) GenerateImage(ctx context.Context, _, _ string) (string, error) {
	return r.call(ctx)
}

func receive(t *testing.T, ch <-chan domain.EnrichmentResult) domain.EnrichmentResult {
	t.Helper()
	select {
	case res, ok := <-ch:
		require.True(t, ok, "result channel closed without a result")
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
		return domain.EnrichmentResult{}
	}
}

func setupEnrichment(t *testing.T, refine, image *gate) (*IdeaStore, *EnrichmentService, domain.Idea) {
	t.Helper()
	store := newTestStore(t, nil)
	idea, err := store.Create(context.Background(), validInput("Chatbot CSKH"))
	require.NoError(t, err)

	var svc *EnrichmentService
	switch {
	case refine != nil && image != nil:
		svc = NewEnrichmentService(store, gateRefiner{refine}, gateImages{image})
	case refine != nil:
		svc = NewEnrichmentService(store, gateRefiner{refine}, nil)
	case image != nil:
		svc = NewEnrichmentService(store, nil, gateImages{image})
	default:
		svc = NewEnrichmentService(store, nil, nil)
	}
	return store, svc, idea
}

func TestEnrichment_RefineSuccess(t *testing.T) {
	g := newGate("Đề xuất: triển khai chatbot", nil)
	store, svc, idea := setupEnrichment(t, g, nil)
	ctx := context.Background()

	ch, err := svc.Refine(ctx, idea.ID)
	require.NoError(t, err)
	g.waitStarted(t)

	st := svc.Status(idea.ID, domain.EnrichmentRefine)
	assert.Equal(t, domain.EnrichmentLoading, st.State)
	assert.False(t, st.StartedAt.IsZero())

	close(g.release)
	res := receive(t, ch)

	require.NoError(t, res.Err)
	assert.False(t, res.Discarded)
	require.NotNil(t, res.Idea)
	assert.Equal(t, "Đề xuất: triển khai chatbot", *res.Idea.AIRefinement)

	got, err := store.Get(ctx, idea.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AIRefinement)
	assert.Equal(t, "Đề xuất: triển khai chatbot", *got.AIRefinement)
	assert.Equal(t, domain.EnrichmentIdle, svc.Status(idea.ID, domain.EnrichmentRefine).State)

	_, open := <-ch
	assert.False(t, open, "channel should be closed after the result")
}

func TestEnrichment_DuplicateRequestRejected(t *testing.T) {
	g := newGate("v1", nil)
	_, svc, idea := setupEnrichment(t, g, nil)
	ctx := context.Background()

	ch, err := svc.Refine(ctx, idea.ID)
	require.NoError(t, err)
	g.waitStarted(t)

	_, err = svc.Refine(ctx, idea.ID)
	require.ErrorIs(t, err, domain.ErrEnrichmentInProgress)

	var ip *domain.InProgressError
	require.ErrorAs(t, err, &ip)
	assert.Equal(t, idea.ID, ip.IdeaID)
	assert.Equal(t, domain.EnrichmentRefine, ip.Kind)

	close(g.release)
	receive(t, ch)
	svc.Wait()
	assert.Equal(t, int32(1), g.calls.Load())
}

func TestEnrichment_KindsRunIndependently(t *testing.T) {
	refine := newGate("proposal", nil)
	image := newGate("https://img.example/1.png", nil)
	store, svc, idea := setupEnrichment(t, refine, image)
	ctx := context.Background()

	refineCh, err := svc.Refine(ctx, idea.ID)
	require.NoError(t, err)
	imageCh, err := svc.GenerateImage(ctx, idea.ID)
	require.NoError(t, err)
	refine.waitStarted(t)
	image.waitStarted(t)

	for _, st := range svc.Statuses(idea.ID) {
		assert.Equal(t, domain.EnrichmentLoading, st.State, st.Kind)
	}

	close(image.release)
	receive(t, imageCh)
	assert.Equal(t, domain.EnrichmentLoading, svc.Status(idea.ID, domain.EnrichmentRefine).State)

	close(refine.release)
	receive(t, refineCh)

	got, err := store.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "proposal", *got.AIRefinement)
	assert.Equal(t, "https://img.example/1.png", *got.ImageURL)
}

func TestEnrichment_ServiceFailure(t *testing.T) {
	cause := errors.New("upstream 503")
	g := newGate("", cause)
	store, svc, idea := setupEnrichment(t, g, nil)
	ctx := context.Background()

	ch, err := svc.Refine(ctx, idea.ID)
	require.NoError(t, err)
	close(g.release)
	res := receive(t, ch)

	require.ErrorIs(t, res.Err, domain.ErrEnrichmentService)
	require.ErrorIs(t, res.Err, cause)
	assert.Nil(t, res.Idea)

	st := svc.Status(idea.ID, domain.EnrichmentRefine)
	assert.Equal(t, domain.EnrichmentFailed, st.State)
	assert.ErrorIs(t, st.Err, cause)

	got, err := store.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AIRefinement)

	// A failed request does not block a retry.
	g2 := newGate("retry ok", nil)
	svc.refiner = gateRefiner{g2}
	ch, err = svc.Refine(ctx, idea.ID)
	require.NoError(t, err)
	close(g2.release)
	res = receive(t, ch)
	require.NoError(t, res.Err)
	assert.Equal(t, domain.EnrichmentIdle, svc.Status(idea.ID, domain.EnrichmentRefine).State)
}

func TestEnrichment_FailureKeepsPreviousRefinement(t *testing.T) {
	g := newGate("", errors.New("timeout"))
	store, svc, idea := setupEnrichment(t, g, nil)
	ctx := context.Background()

	_, err := store.Update(ctx, idea.ID, domain.IdeaPatch{AIRefinement: ptr("earlier")})
	require.NoError(t, err)

	ch, err := svc.Refine(ctx, idea.ID)
	require.NoError(t, err)
	close(g.release)
	receive(t, ch)

	got, err := store.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "earlier", *got.AIRefinement)
}

func TestEnrichment_ImageAbsentIsSuccess(t *testing.T) {
	g := newGate("", nil)
	store, svc, idea := setupEnrichment(t, nil, g)
	ctx := context.Background()

	ch, err := svc.GenerateImage(ctx, idea.ID)
	require.NoError(t, err)
	close(g.release)
	res := receive(t, ch)

	assert.NoError(t, res.Err)
	assert.Nil(t, res.Idea)
	assert.False(t, res.Discarded)
	assert.Equal(t, domain.EnrichmentIdle, svc.Status(idea.ID, domain.EnrichmentImage).State)

	got, err := store.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ImageURL)
}

func TestEnrichment_ImageRegenerationOverwrites(t *testing.T) {
	first := newGate("data:image/png;base64,AAA", nil)
	store, svc, idea := setupEnrichment(t, nil, first)
	ctx := context.Background()

	ch, err := svc.GenerateImage(ctx, idea.ID)
	require.NoError(t, err)
	close(first.release)
	receive(t, ch)

	second := newGate("data:image/png;base64,BBB", nil)
	svc.images = gateImages{second}
	ch, err = svc.GenerateImage(ctx, idea.ID)
	require.NoError(t, err)
	close(second.release)
	receive(t, ch)

	got, err := store.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,BBB", *got.ImageURL)
}

func TestEnrichment_DeletedWhileInFlight(t *testing.T) {
	tests := []struct {
		name  string
		kind  domain.EnrichmentKind
		value string
		err   error
	}{
		{"refine success discarded", domain.EnrichmentRefine, "late proposal", nil},
		{"refine failure discarded", domain.EnrichmentRefine, "", errors.New("upstream 500")},
		{"image success discarded", domain.EnrichmentImage, "data:image/png;base64,AAA", nil},
		{"image failure discarded", domain.EnrichmentImage, "", errors.New("upstream 500")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGate(tt.value, tt.err)
			ctx := context.Background()

			var (
				store *IdeaStore
				svc   *EnrichmentService
				idea  domain.Idea
				ch    <-chan domain.EnrichmentResult
				err   error
			)
			if tt.kind == domain.EnrichmentImage {
				store, svc, idea = setupEnrichment(t, nil, g)
				ch, err = svc.GenerateImage(ctx, idea.ID)
			} else {
				store, svc, idea = setupEnrichment(t, g, nil)
				ch, err = svc.Refine(ctx, idea.ID)
			}
			require.NoError(t, err)
			g.waitStarted(t)

			require.NoError(t, store.Delete(ctx, idea.ID))
			assert.Equal(t, domain.EnrichmentIdle, svc.Status(idea.ID, tt.kind).State)

			close(g.release)
			res := receive(t, ch)

			assert.True(t, res.Discarded)
			assert.NoError(t, res.Err)
			assert.Nil(t, res.Idea)
			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, domain.EnrichmentIdle, svc.Status(idea.ID, tt.kind).State)

			ideas, err := store.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, ideas)
		})
	}
}

func TestEnrichment_StoreNotBlockedByRequests(t *testing.T) {
	g := newGate("proposal", nil)
	store, svc, idea := setupEnrichment(t, g, nil)
	ctx := context.Background()

	ch, err := svc.Refine(ctx, idea.ID)
	require.NoError(t, err)
	g.waitStarted(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := store.Update(ctx, idea.ID, domain.IdeaPatch{Status: ptr(domain.StatusApproved)})
		assert.NoError(t, err)
		_, err = store.Create(ctx, validInput("Khác"))
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("store operations blocked on an in-flight request")
	}

	close(g.release)
	res := receive(t, ch)
	require.NotNil(t, res.Idea)
	assert.Equal(t, domain.StatusApproved, res.Idea.Status, "merge keeps concurrent edits")
}

func TestEnrichment_CallerCancellationDoesNotAbortRequest(t *testing.T) {
	g := newGate("proposal", nil)
	store, svc, idea := setupEnrichment(t, g, nil)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := svc.Refine(ctx, idea.ID)
	require.NoError(t, err)
	g.waitStarted(t)
	cancel()

	close(g.release)
	res := receive(t, ch)
	require.NoError(t, res.Err)
	assert.NoError(t, g.ctxErr)

	got, err := store.Get(context.Background(), idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "proposal", *got.AIRefinement)
}

func TestEnrichment_SynchronousErrors(t *testing.T) {
	t.Run("unknown idea", func(t *testing.T) {
		g := newGate("x", nil)
		_, svc, _ := setupEnrichment(t, g, nil)
		_, err := svc.Refine(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, int32(0), g.calls.Load())
	})

	t.Run("no refiner", func(t *testing.T) {
		_, svc, idea := setupEnrichment(t, nil, nil)
		_, err := svc.Refine(context.Background(), idea.ID)
		assert.ErrorIs(t, err, domain.ErrEnrichmentUnavailable)
	})

	t.Run("no image generator", func(t *testing.T) {
		_, svc, idea := setupEnrichment(t, nil, nil)
		_, err := svc.GenerateImage(context.Background(), idea.ID)
		assert.ErrorIs(t, err, domain.ErrEnrichmentUnavailable)
	})
}

func TestEnrichment_ForgetClearsFailures(t *testing.T) {
	g := newGate("", errors.New("boom"))
	_, svc, idea := setupEnrichment(t, g, nil)

	ch, err := svc.Refine(context.Background(), idea.ID)
	require.NoError(t, err)
	close(g.release)
	receive(t, ch)
	require.Equal(t, domain.EnrichmentFailed, svc.Status(idea.ID, domain.EnrichmentRefine).State)

	svc.Forget(idea.ID)
	assert.Equal(t, domain.EnrichmentIdle, svc.Status(idea.ID, domain.EnrichmentRefine).State)
}

func TestEnrichment_StatusUnknownIdea(t *testing.T) {
	_, svc, _ := setupEnrichment(t, nil, nil)
	st := svc.Status("missing", domain.EnrichmentImage)
	assert.Equal(t, domain.EnrichmentIdle, st.State)
	assert.Equal(t, "missing", st.IdeaID)
	assert.Equal(t, domain.EnrichmentImage, st.Kind)
}

func TestEnrichment_Wait(t *testing.T) {
	g := newGate("proposal", nil)
	_, svc, idea := setupEnrichment(t, g, nil)

	_, err := svc.Refine(context.Background(), idea.ID)
	require.NoError(t, err)
	g.waitStarted(t)

	waited := make(chan struct{})
	go func() {
		svc.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		t.Fatal("Wait returned while a request was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(g.release)
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after the request finished")
	}
}
