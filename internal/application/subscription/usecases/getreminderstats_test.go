package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
)

func TestGetReminderStats(t *testing.T) {
	var since time.Time
	subRepo := &mockSubscriptionRepository{
		CountByStatusFunc: func(ctx context.Context, status vo.SubscriptionStatus) (int64, error) {
			assert.Equal(t, vo.StatusActive, status)
			return 12, nil
		},
	}
	confRepo := &mockConfirmationRepository{
		CountCreatedSinceFunc: func(ctx context.Context, s time.Time) (int64, error) {
			since = s
			return 4, nil
		},
		CountPendingFunc: func(ctx context.Context, now time.Time) (int64, error) { return 3, nil },
		CountByActionFunc: func(ctx context.Context) (map[vo.ActionKind]int64, error) {
			return map[vo.ActionKind]int64{vo.ActionContinue: 5, vo.ActionCancel: 1}, nil
		},
	}
	uc := NewGetReminderStatsUseCase(subRepo, confRepo, &mockLogger{})
	uc.now = clock

	stats, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.ActiveSubscriptions)
	assert.Equal(t, int64(4), stats.RemindersSentToday)
	assert.Equal(t, int64(3), stats.PendingConfirmations)
	assert.Equal(t, int64(5), stats.ContinueCount)
	assert.Equal(t, int64(0), stats.PauseCount)
	assert.Equal(t, int64(1), stats.CancelCount)
	// Midnight in Asia/Ho_Chi_Minh is 17:00 UTC the previous day.
	assert.Equal(t, time.Date(2025, 1, 17, 17, 0, 0, 0, time.UTC), since)
}

func TestGetReminderStats_RepositoryFailure(t *testing.T) {
	confRepo := &mockConfirmationRepository{
		CountPendingFunc: func(ctx context.Context, now time.Time) (int64, error) {
			return 0, errors.New("db down")
		},
	}
	uc := NewGetReminderStatsUseCase(&mockSubscriptionRepository{}, confRepo, &mockLogger{})

	_, err := uc.Execute(context.Background())

	assert.ErrorContains(t, err, "pending confirmations")
}
