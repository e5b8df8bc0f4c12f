package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"stayfinder/internal/booking"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyRepo wraps a memory repository and fails on demand.
type flakyRepo struct {
	*MemoryDraftRepository
	failing bool
}

func (r *flakyRepo) GetDraft(ctx context.Context, chatID int64) (*booking.Draft, error) {
	if r.failing {
		return nil, errors.New("connection refused")
	}
	return r.MemoryDraftRepository.GetDraft(ctx, chatID)
}

func (r *flakyRepo) SetDraft(ctx context.Context, draft *booking.Draft) error {
	if r.failing {
		return errors.New("connection refused")
	}
	return r.MemoryDraftRepository.SetDraft(ctx, draft)
}

func (r *flakyRepo) ClearDraft(ctx context.Context, chatID int64) error {
	if r.failing {
		return errors.New("connection refused")
	}
	return r.MemoryDraftRepository.ClearDraft(ctx, chatID)
}

func (r *flakyRepo) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	if r.failing {
		return false, errors.New("connection refused")
	}
	return r.MemoryDraftRepository.CheckRateLimit(ctx, chatID, limit, window)
}

func newFailover(t *testing.T) (*FailoverDraftRepository, *flakyRepo, *MemoryDraftRepository) {
	t.Helper()
	primary := &flakyRepo{MemoryDraftRepository: NewMemoryDraftRepository(time.Hour)}
	fallback := NewMemoryDraftRepository(time.Hour)
	logger := zerolog.New(os.Stdout)
	return NewFailoverDraftRepository(primary, fallback, &logger), primary, fallback
}

func TestFailoverPrimaryHealthy(t *testing.T) {
	repo, primary, fallback := newFailover(t)
	ctx := context.Background()

	draft := newDraft(1)
	require.NoError(t, repo.SetDraft(ctx, draft))

	got, err := primary.GetDraft(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, got, "healthy primary should hold the draft")

	got, err = fallback.GetDraft(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got, "fallback should stay untouched while primary is healthy")
}

func TestFailoverSwitchesToFallback(t *testing.T) {
	repo, primary, fallback := newFailover(t)
	ctx := context.Background()

	primary.failing = true

	draft := newDraft(2)
	require.NoError(t, repo.SetDraft(ctx, draft))
	assert.True(t, repo.isDown.Load())

	got, err := fallback.GetDraft(ctx, 2)
	require.NoError(t, err)
	assert.NotNil(t, got, "draft should land in the fallback")

	// Subsequent reads keep serving from the fallback without touching
	// the failed primary.
	got, err = repo.GetDraft(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, draft.ListingID, got.ListingID)
}

func TestFailoverRecovery(t *testing.T) {
	repo, primary, _ := newFailover(t)
	ctx := context.Background()

	primary.failing = true
	_, err := repo.GetDraft(ctx, 3)
	require.NoError(t, err)
	require.True(t, repo.isDown.Load())

	// Primary comes back; the recovery check only fires after the cooldown.
	primary.failing = false
	require.NoError(t, primary.SetDraft(ctx, newDraft(3)))

	repo.lastCheck = time.Now().Add(-2 * time.Minute)
	got, err := repo.GetDraft(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, repo.isDown.Load(), "recovered primary should be marked healthy")
}

func TestFailoverRateLimit(t *testing.T) {
	repo, primary, _ := newFailover(t)
	ctx := context.Background()

	primary.failing = true

	allowed, err := repo.CheckRateLimit(ctx, 4, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = repo.CheckRateLimit(ctx, 4, 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "fallback should enforce the limit")
}
