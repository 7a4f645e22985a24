package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harvestbox/subscriptions/internal/application/subscription/dto"
	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/shared/biztime"
	"github.com/harvestbox/subscriptions/internal/shared/errors"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

type ProcessConfirmationCommand struct {
	Token      string
	Action     string
	PauseUntil *time.Time
}

// ProcessConfirmationUseCase applies a customer's reminder response. The
// token is consumed and the subscription changed in one transaction, and
// the token update is a compare-and-set so concurrent duplicate
// submissions apply at most once.
type ProcessConfirmationUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	confirmationRepo subscription.ConfirmationRepository
	txManager        TransactionManager
	publisher        EventPublisher
	logger           logger.Interface
	now              func() time.Time
}

func NewProcessConfirmationUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	confirmationRepo subscription.ConfirmationRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger logger.Interface,
) *ProcessConfirmationUseCase {
	return &ProcessConfirmationUseCase{
		subscriptionRepo: subscriptionRepo,
		confirmationRepo: confirmationRepo,
		txManager:        txManager,
		publisher:        publisher,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

func (uc *ProcessConfirmationUseCase) Execute(ctx context.Context, cmd ProcessConfirmationCommand) (*dto.ConfirmationResultDTO, error) {
	action, err := vo.ParseConfirmationAction(strings.ToLower(strings.TrimSpace(cmd.Action)), cmd.PauseUntil)
	if err != nil {
		return nil, toAppError(err)
	}

	token := strings.TrimSpace(cmd.Token)
	if token == "" {
		return nil, errors.NewValidationError("token is required")
	}

	now := uc.now()
	var (
		confirmation *subscription.Confirmation
		sub          *subscription.Subscription
	)

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		confirmation, err = uc.confirmationRepo.GetByToken(txCtx, token)
		if err != nil {
			return fmt.Errorf("failed to get confirmation: %w", err)
		}
		if confirmation == nil {
			return subscription.ErrConfirmationNotFound
		}

		if err := confirmation.MarkProcessed(action.Kind(), now); err != nil {
			return err
		}

		sub, err = uc.subscriptionRepo.GetByID(txCtx, confirmation.SubscriptionID())
		if err != nil {
			return fmt.Errorf("failed to get subscription: %w", err)
		}
		if sub == nil {
			return subscription.ErrSubscriptionNotFound
		}

		if err := sub.ApplyConfirmation(action, now); err != nil {
			return err
		}

		if err := uc.confirmationRepo.MarkProcessed(txCtx, confirmation); err != nil {
			return err
		}

		if action.Kind() == vo.ActionContinue {
			return nil
		}
		return uc.subscriptionRepo.Update(txCtx, sub)
	})
	if err != nil {
		appErr := toAppError(err)
		if !errors.IsAppError(appErr) {
			uc.logger.Errorw("failed to process confirmation", "action", action.String(), "error", err)
		} else {
			uc.logger.Infow("confirmation rejected", "action", action.String(), "reason", err)
		}
		return nil, appErr
	}

	event := subscription.NewConfirmationProcessedEvent(confirmation, sub, now)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warnw("failed to publish event",
			"event_type", event.GetEventType(),
			"aggregate_id", event.GetAggregateID(),
			"error", err,
		)
	}

	uc.logger.Infow("confirmation processed",
		"confirmation_id", confirmation.ID(),
		"subscription_id", sub.ID(),
		"action", action.String(),
		"status", sub.Status().String(),
	)

	return &dto.ConfirmationResultDTO{
		Action:             action.String(),
		SubscriptionID:     sub.ID(),
		SubscriptionStatus: sub.Status().String(),
		PauseUntil:         dto.FormatOptionalDate(sub.PauseUntil()),
		Message:            confirmationMessage(action, sub.Status()),
	}, nil
}

func confirmationMessage(action vo.ConfirmationAction, status vo.SubscriptionStatus) string {
	switch action.Kind() {
	case vo.ActionPause:
		return fmt.Sprintf("Your subscription has been paused until %s", biztime.FormatDate(action.PauseUntil()))
	case vo.ActionCancel:
		return "Your subscription has been cancelled"
	default:
		if status.IsTerminal() {
			return "Your response was recorded; this subscription is already cancelled"
		}
		return "Your subscription will continue as scheduled"
	}
}
