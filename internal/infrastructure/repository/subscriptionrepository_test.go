package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/infrastructure/persistence/models"
)

func TestSubscriptionRepository_CreateAndGet(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	sub := createTestSubscription(t, repo, 10, vo.FrequencyMonthly, day(2025, 1, 31))
	require.NotZero(t, sub.ID())

	found, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, vo.StatusActive, found.Status())
	assert.Equal(t, vo.FrequencyMonthly, found.Frequency())
	assert.Equal(t, day(2025, 1, 31), found.StartDate())
	assert.Equal(t, day(2025, 2, 28), found.NextDeliveryDate())
	assert.Nil(t, found.PauseUntil())

	missing, err := repo.GetByID(ctx, 9999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSubscriptionRepository_UpdateChecksVersion(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), testLogger())
	ctx := context.Background()
	sub := createTestSubscription(t, repo, 10, vo.FrequencyWeekly, day(2025, 1, 13))

	first, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)

	require.NoError(t, first.Pause(day(2025, 2, 1), testNow))
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, second.Cancel(testNow))
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, subscription.ErrSubscriptionConflict)

	stored, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusPaused, stored.Status())
	require.NotNil(t, stored.PauseUntil())
	assert.Equal(t, day(2025, 2, 1), *stored.PauseUntil())
	assert.Equal(t, 2, stored.Version())
}

func TestSubscriptionRepository_FindDueForReminder(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	// weekly: next delivery is start + 7 days (01-20, 01-21, 01-22, 01-20)
	inside := createTestSubscription(t, repo, 10, vo.FrequencyWeekly, day(2025, 1, 13))
	edge := createTestSubscription(t, repo, 11, vo.FrequencyWeekly, day(2025, 1, 14))
	outside := createTestSubscription(t, repo, 12, vo.FrequencyWeekly, day(2025, 1, 15))
	paused := createTestSubscription(t, repo, 13, vo.FrequencyWeekly, day(2025, 1, 13))
	require.NoError(t, paused.Pause(day(2025, 3, 1), testNow))
	require.NoError(t, repo.Update(ctx, paused))

	due, err := repo.FindDueForReminder(ctx, day(2025, 1, 18), day(2025, 1, 21))
	require.NoError(t, err)

	ids := make([]uint, 0, len(due.Subscriptions))
	for _, s := range due.Subscriptions {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []uint{inside.ID(), edge.ID()}, ids)
	assert.NotContains(t, ids, outside.ID())
	assert.Empty(t, due.UnreadableIDs)
}

func TestSubscriptionRepository_FindDueForReminderSkipsUnreadableRows(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewSubscriptionRepository(gormDB, testLogger())
	ctx := context.Background()

	good := createTestSubscription(t, repo, 10, vo.FrequencyWeekly, day(2025, 1, 13))
	bad := &models.SubscriptionModel{
		UserID:           11,
		ProductID:        100,
		Frequency:        "daily",
		Quantity:         1,
		Status:           vo.StatusActive.String(),
		StartDate:        datatypes.Date(day(2025, 1, 13)),
		NextDeliveryDate: datatypes.Date(day(2025, 1, 20)),
		CreatedAt:        testNow,
		UpdatedAt:        testNow,
	}
	require.NoError(t, gormDB.Create(bad).Error)

	due, err := repo.FindDueForReminder(ctx, day(2025, 1, 18), day(2025, 1, 21))
	require.NoError(t, err)

	require.Len(t, due.Subscriptions, 1)
	assert.Equal(t, good.ID(), due.Subscriptions[0].ID())
	assert.Equal(t, []uint{bad.ID}, due.UnreadableIDs)
}

func TestSubscriptionRepository_ListAndCount(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		createTestSubscription(t, repo, 10, vo.FrequencyWeekly, day(2025, 1, 13+i))
	}
	other := createTestSubscription(t, repo, 20, vo.FrequencyBiweekly, day(2025, 1, 13))
	require.NoError(t, other.Cancel(testNow.Add(time.Hour)))
	require.NoError(t, repo.Update(ctx, other))

	userID := uint(10)
	subs, total, err := repo.List(ctx, subscription.SubscriptionFilter{UserID: &userID, Page: 1, PageSize: 2, SortBy: "next_delivery_date"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, subs, 2)
	assert.True(t, subs[0].NextDeliveryDate().Before(subs[1].NextDeliveryDate()))

	cancelled := vo.StatusCancelled
	subs, total, err = repo.List(ctx, subscription.SubscriptionFilter{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, other.ID(), subs[0].ID())

	active, err := repo.CountByStatus(ctx, vo.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, int64(3), active)
}
