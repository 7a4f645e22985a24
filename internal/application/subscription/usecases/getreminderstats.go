package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/harvestbox/subscriptions/internal/application/subscription/dto"
	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/shared/biztime"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// GetReminderStatsUseCase aggregates dashboard counters. Action counts use
// the action stored on each processed confirmation.
type GetReminderStatsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	confirmationRepo subscription.ConfirmationRepository
	logger           logger.Interface
	now              func() time.Time
}

func NewGetReminderStatsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	confirmationRepo subscription.ConfirmationRepository,
	logger logger.Interface,
) *GetReminderStatsUseCase {
	return &GetReminderStatsUseCase{
		subscriptionRepo: subscriptionRepo,
		confirmationRepo: confirmationRepo,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

func (uc *GetReminderStatsUseCase) Execute(ctx context.Context) (*dto.ReminderStatsDTO, error) {
	now := uc.now()

	active, err := uc.subscriptionRepo.CountByStatus(ctx, vo.StatusActive)
	if err != nil {
		return nil, uc.fail("active subscriptions", err)
	}

	sentToday, err := uc.confirmationRepo.CountCreatedSince(ctx, biztime.StartOfDayUTC(now))
	if err != nil {
		return nil, uc.fail("reminders sent today", err)
	}

	pending, err := uc.confirmationRepo.CountPending(ctx, now)
	if err != nil {
		return nil, uc.fail("pending confirmations", err)
	}

	byAction, err := uc.confirmationRepo.CountByAction(ctx)
	if err != nil {
		return nil, uc.fail("confirmation actions", err)
	}

	return &dto.ReminderStatsDTO{
		ActiveSubscriptions:  active,
		RemindersSentToday:   sentToday,
		PendingConfirmations: pending,
		ContinueCount:        byAction[vo.ActionContinue],
		PauseCount:           byAction[vo.ActionPause],
		CancelCount:          byAction[vo.ActionCancel],
	}, nil
}

func (uc *GetReminderStatsUseCase) fail(what string, err error) error {
	uc.logger.Errorw("failed to count "+what, "error", err)
	return fmt.Errorf("failed to count %s: %w", what, err)
}
