package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/shared/db"
)

const validity = 7 * 24 * time.Hour

func newTestConfirmation(t *testing.T, subscriptionID uint, token string, scheduled, createdAt time.Time) *subscription.Confirmation {
	t.Helper()
	c, err := subscription.NewConfirmation(subscriptionID, token, scheduled, createdAt, validity)
	require.NoError(t, err)
	return c
}

func TestConfirmationRepository_OneActivePerCycle(t *testing.T) {
	repo := NewConfirmationRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	first := newTestConfirmation(t, 1, "token-1", day(2025, 1, 20), testNow)
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID())

	second := newTestConfirmation(t, 1, "token-2", day(2025, 1, 20), testNow)
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, subscription.ErrActiveConfirmationExists)

	otherCycle := newTestConfirmation(t, 1, "token-3", day(2025, 1, 27), testNow)
	assert.NoError(t, repo.Create(ctx, otherCycle))

	active, err := repo.FindActiveForCycle(ctx, 1, day(2025, 1, 20), testNow)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "token-1", active.Token())
	assert.Equal(t, day(2025, 1, 20), active.ScheduledDeliveryDate())
}

func TestConfirmationRepository_ExpiredSlotIsReleased(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewConfirmationRepository(gdb, testLogger())
	tm := db.NewTransactionManager(gdb)
	ctx := context.Background()

	old := newTestConfirmation(t, 1, "old-token", day(2025, 1, 20), testNow.Add(-8*24*time.Hour))
	require.NoError(t, repo.Create(ctx, old))

	active, err := repo.FindActiveForCycle(ctx, 1, day(2025, 1, 20), testNow)
	require.NoError(t, err)
	assert.Nil(t, active)

	fresh := newTestConfirmation(t, 1, "fresh-token", day(2025, 1, 20), testNow)
	err = tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.ReleaseExpiredCycle(txCtx, 1, day(2025, 1, 20), testNow); err != nil {
			return err
		}
		return repo.Create(txCtx, fresh)
	})
	require.NoError(t, err)

	stale, err := repo.GetByToken(ctx, "old-token")
	require.NoError(t, err)
	require.NotNil(t, stale)
	assert.True(t, stale.IsExpired(testNow))
}

func TestConfirmationRepository_MarkProcessedOnce(t *testing.T) {
	repo := NewConfirmationRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	c := newTestConfirmation(t, 1, "token-1", day(2025, 1, 20), testNow)
	require.NoError(t, repo.Create(ctx, c))

	winner, err := repo.GetByToken(ctx, "token-1")
	require.NoError(t, err)
	loser, err := repo.GetByToken(ctx, "token-1")
	require.NoError(t, err)

	require.NoError(t, winner.MarkProcessed(vo.ActionCancel, testNow.Add(time.Hour)))
	require.NoError(t, repo.MarkProcessed(ctx, winner))

	require.NoError(t, loser.MarkProcessed(vo.ActionContinue, testNow.Add(2*time.Hour)))
	err = repo.MarkProcessed(ctx, loser)
	assert.ErrorIs(t, err, subscription.ErrConfirmationAlreadyProcessed)

	stored, err := repo.GetByToken(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, stored.IsProcessed())
	assert.Equal(t, vo.ActionCancel, stored.Action())

	// processing frees the cycle slot
	next := newTestConfirmation(t, 1, "token-2", day(2025, 1, 20), testNow.Add(3*time.Hour))
	assert.NoError(t, repo.Create(ctx, next))
}

func TestConfirmationRepository_UpdateDispatch(t *testing.T) {
	repo := NewConfirmationRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	c := newTestConfirmation(t, 1, "token-1", day(2025, 1, 20), testNow)
	require.NoError(t, repo.Create(ctx, c))

	c.RecordDispatchSuccess(testNow.Add(time.Minute))
	require.NoError(t, repo.UpdateDispatch(ctx, c))

	stored, err := repo.GetByToken(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, stored.NeedsDispatch())
	assert.Equal(t, 1, stored.DispatchAttempts())
}

func TestConfirmationRepository_Counts(t *testing.T) {
	repo := NewConfirmationRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	yesterday := newTestConfirmation(t, 1, "t-1", day(2025, 1, 20), testNow.Add(-24*time.Hour))
	require.NoError(t, repo.Create(ctx, yesterday))
	require.NoError(t, yesterday.MarkProcessed(vo.ActionContinue, testNow))
	require.NoError(t, repo.MarkProcessed(ctx, yesterday))

	for i, token := range []string{"t-2", "t-3"} {
		c := newTestConfirmation(t, uint(2+i), token, day(2025, 1, 20), testNow)
		require.NoError(t, repo.Create(ctx, c))
	}
	cancelled := newTestConfirmation(t, 4, "t-4", day(2025, 1, 20), testNow)
	require.NoError(t, repo.Create(ctx, cancelled))
	require.NoError(t, cancelled.MarkProcessed(vo.ActionCancel, testNow))
	require.NoError(t, repo.MarkProcessed(ctx, cancelled))

	created, err := repo.CountCreatedSince(ctx, testNow.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), created)

	pending, err := repo.CountPending(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	byAction, err := repo.CountByAction(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byAction[vo.ActionContinue])
	assert.Equal(t, int64(1), byAction[vo.ActionCancel])
	assert.Zero(t, byAction[vo.ActionPause])
}
