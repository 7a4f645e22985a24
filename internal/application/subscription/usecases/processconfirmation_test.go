package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	apperrors "github.com/harvestbox/subscriptions/internal/shared/errors"
)

type confirmationFixture struct {
	uc        *ProcessConfirmationUseCase
	sub       *subscription.Subscription
	conf      *subscription.Confirmation
	publisher *mockPublisher
	updates   int
	marks     int
}

func newConfirmationFixture(t *testing.T, status vo.SubscriptionStatus) *confirmationFixture {
	t.Helper()
	f := &confirmationFixture{
		sub:       newSubscription(t, 1, status, date(2025, 1, 20)),
		conf:      newConfirmation(t, 7, 1, "tok-a", fixedNow.Add(-24*time.Hour)),
		publisher: &mockPublisher{},
	}

	subRepo := &mockSubscriptionRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*subscription.Subscription, error) {
			if id == f.sub.ID() {
				return f.sub, nil
			}
			return nil, nil
		},
		UpdateFunc: func(ctx context.Context, s *subscription.Subscription) error {
			f.updates++
			return nil
		},
	}
	confRepo := &mockConfirmationRepository{
		GetByTokenFunc: func(ctx context.Context, token string) (*subscription.Confirmation, error) {
			if token == f.conf.Token() {
				return f.conf, nil
			}
			return nil, nil
		},
		MarkProcessedFunc: func(ctx context.Context, c *subscription.Confirmation) error {
			f.marks++
			return nil
		},
	}

	f.uc = NewProcessConfirmationUseCase(subRepo, confRepo, &mockTxManager{}, f.publisher, &mockLogger{})
	f.uc.now = clock
	return f
}

func TestProcessConfirmation_Cancel(t *testing.T) {
	f := newConfirmationFixture(t, vo.StatusActive)

	result, err := f.uc.Execute(context.Background(), ProcessConfirmationCommand{Token: "tok-a", Action: "cancel"})

	require.NoError(t, err)
	assert.Equal(t, "cancel", result.Action)
	assert.Equal(t, "cancelled", result.SubscriptionStatus)
	assert.Contains(t, result.Message, "already cancelled")
	assert.Equal(t, vo.StatusCancelled, f.sub.Status())
	assert.True(t, f.conf.IsProcessed())
	assert.Equal(t, vo.ActionCancel, f.conf.Action())
	assert.Equal(t, 1, f.updates)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "confirmation.processed", f.publisher.events[0].GetEventType())
}

func TestProcessConfirmation_SecondSubmissionRejected(t *testing.T) {
	f := newConfirmationFixture(t, vo.StatusActive)

	_, err := f.uc.Execute(context.Background(), ProcessConfirmationCommand{Token: "tok-a", Action: "cancel"})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), ProcessConfirmationCommand{Token: "tok-a", Action: "cancel"})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.ErrorIs(t, err, subscription.ErrConfirmationAlreadyProcessed)
	assert.Equal(t, vo.StatusCancelled, f.sub.Status())
	assert.Equal(t, 1, f.updates)
}

func TestProcessConfirmation_Pause(t *testing.T) {
	f := newConfirmationFixture(t, vo.StatusActive)
	until := date(2025, 2, 15)

	result, err := f.uc.Execute(context.Background(), ProcessConfirmationCommand{
		Token:      "tok-a",
		Action:     "PAUSE",
		PauseUntil: &until,
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusPaused, f.sub.Status())
	require.NotNil(t, result.PauseUntil)
	assert.Equal(t, "2025-02-15", *result.PauseUntil)
	assert.Contains(t, result.Message, "2025-02-15")
}

func TestProcessConfirmation_PauseWithoutDate(t *testing.T) {
	f := newConfirmationFixture(t, vo.StatusActive)

	_, err := f.uc.Execute(context.Background(), ProcessConfirmationCommand{Token: "tok-a", Action: "pause"})

	assert.True(t, apperrors.IsValidationError(err))
	assert.False(t, f.conf.IsProcessed())
	assert.Equal(t, vo.StatusActive, f.sub.Status())
}

func TestProcessConfirmation_PauseDateNotInFuture(t *testing.T) {
	f := newConfirmationFixture(t, vo.StatusActive)
	today := date(2025, 1, 18)

	_, err := f.uc.Execute(context.Background(), ProcessConfirmationCommand{Token: "tok-a", Action: "pause", PauseUntil: &today})

	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, 0, f.marks)
}

func TestProcessConfirmation_Continue(t *testing.T) {
	f := newConfirmationFixture(t, vo.StatusActive)

	result, err := f.uc.Execute(context.Background(), ProcessConfirmationCommand{Token: "tok-a", Action: "continue"})

	require.NoError(t, err)
	assert.Equal(t, "active", result.SubscriptionStatus)
	assert.True(t, f.conf.IsProcessed())
	assert.Equal(t, 1, f.marks)
	assert.Equal(t, 0, f.updates)
}

func TestProcessConfirmation_ContinueOnCancelledSubscriptionConsumesToken(t *testing.T) {
	f := newConfirmationFixture(t, vo.StatusCancelled)

	result, err := f.uc.Execute(context.Background(), ProcessConfirmationCommand{Token: "tok-a", Action: "continue"})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", result.SubscriptionStatus)
	assert.Contains(t, result.Message, "already cancelled")
	assert.Equal(t, vo.StatusCancelled, f.sub.Status())
	assert.True(t, f.conf.IsProcessed())
	assert.Equal(t, 1, f.marks)
	assert.Equal(t, 0, f.updates)
}

func TestProcessConfirmation_Expired(t *testing.T) {
	f := newConfirmationFixture(t, vo.StatusActive)
	f.uc.now = func() time.Time { return fixedNow.Add(7 * 24 * time.Hour) }

	_, err := f.uc.Execute(context.Background(), ProcessConfirmationCommand{Token: "tok-a", Action: "cancel"})

	assert.True(t, apperrors.IsExpiredError(err))
	assert.Equal(t, vo.StatusActive, f.sub.Status())
}

func TestProcessConfirmation_UnknownToken(t *testing.T) {
	f := newConfirmationFixture(t, vo.StatusActive)

	_, err := f.uc.Execute(context.Background(), ProcessConfirmationCommand{Token: "nope", Action: "cancel"})

	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestProcessConfirmation_InvalidInput(t *testing.T) {
	f := newConfirmationFixture(t, vo.StatusActive)

	_, err := f.uc.Execute(context.Background(), ProcessConfirmationCommand{Token: "tok-a", Action: "skip"})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = f.uc.Execute(context.Background(), ProcessConfirmationCommand{Token: "  ", Action: "cancel"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestProcessConfirmation_LostRace(t *testing.T) {
	f := newConfirmationFixture(t, vo.StatusActive)
	f.uc.confirmationRepo.(*mockConfirmationRepository).MarkProcessedFunc = func(ctx context.Context, c *subscription.Confirmation) error {
		return subscription.ErrConfirmationAlreadyProcessed
	}

	_, err := f.uc.Execute(context.Background(), ProcessConfirmationCommand{Token: "tok-a", Action: "cancel"})

	assert.True(t, apperrors.IsConflictError(err))
	assert.Equal(t, 0, f.updates)
	assert.Empty(t, f.publisher.events)
}
