package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	"github.com/harvestbox/subscriptions/internal/shared/biztime"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// loadOwnedSubscription hides subscriptions of other users behind the same
// not found error as missing ones.
func loadOwnedSubscription(ctx context.Context, repo subscription.SubscriptionRepository, id, userID uint) (*subscription.Subscription, error) {
	sub, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil || !sub.IsOwnedBy(userID) {
		return nil, toAppError(subscription.ErrSubscriptionNotFound)
	}
	return sub, nil
}

type PauseSubscriptionCommand struct {
	SubscriptionID uint
	UserID         uint
	PauseUntil     *time.Time
}

type PauseSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
	now              func() time.Time
}

func NewPauseSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *PauseSubscriptionUseCase {
	return &PauseSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

func (uc *PauseSubscriptionUseCase) Execute(ctx context.Context, cmd PauseSubscriptionCommand) error {
	if cmd.PauseUntil == nil || cmd.PauseUntil.IsZero() {
		return toAppError(subscription.ErrPauseUntilRequired)
	}

	sub, err := loadOwnedSubscription(ctx, uc.subscriptionRepo, cmd.SubscriptionID, cmd.UserID)
	if err != nil {
		return err
	}

	if err := sub.Pause(*cmd.PauseUntil, uc.now()); err != nil {
		return toAppError(err)
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return toAppError(err)
	}

	uc.logger.Infow("subscription paused",
		"subscription_id", sub.ID(),
		"pause_until", biztime.FormatDate(*sub.PauseUntil()),
	)
	return nil
}

type ResumeSubscriptionCommand struct {
	SubscriptionID uint
	UserID         uint
}

type ResumeSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
	now              func() time.Time
}

func NewResumeSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *ResumeSubscriptionUseCase {
	return &ResumeSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

// Execute reactivates the subscription without moving nextDeliveryDate.
func (uc *ResumeSubscriptionUseCase) Execute(ctx context.Context, cmd ResumeSubscriptionCommand) error {
	sub, err := loadOwnedSubscription(ctx, uc.subscriptionRepo, cmd.SubscriptionID, cmd.UserID)
	if err != nil {
		return err
	}

	if err := sub.Resume(uc.now()); err != nil {
		return toAppError(err)
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return toAppError(err)
	}

	if sub.NextDeliveryDate().Before(biztime.DateOf(uc.now())) {
		uc.logger.Warnw("resumed subscription has a past delivery date",
			"subscription_id", sub.ID(),
			"next_delivery_date", biztime.FormatDate(sub.NextDeliveryDate()),
		)
	}

	uc.logger.Infow("subscription resumed", "subscription_id", sub.ID())
	return nil
}

type CancelSubscriptionCommand struct {
	SubscriptionID uint
	UserID         uint
}

type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
	now              func() time.Time
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) error {
	sub, err := loadOwnedSubscription(ctx, uc.subscriptionRepo, cmd.SubscriptionID, cmd.UserID)
	if err != nil {
		return err
	}

	if err := sub.Cancel(uc.now()); err != nil {
		return toAppError(err)
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return toAppError(err)
	}

	uc.logger.Infow("subscription cancelled", "subscription_id", sub.ID())
	return nil
}

