package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	"github.com/harvestbox/subscriptions/internal/shared/biztime"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// IssueReminderResult describes what happened for one subscription.
type IssueReminderResult struct {
	Confirmation *subscription.Confirmation
	// Reused is true when an active token for the cycle already existed.
	Reused bool
	// Dispatched is true when an email was sent by this call. A reused
	// token that was already delivered is not sent again.
	Dispatched bool
}

// ReminderIssuer creates or reuses the confirmation token for a
// subscription's next delivery and emails it to the customer. It is shared
// by the scheduled sweep and the admin bulk dispatcher.
type ReminderIssuer struct {
	subscriptionRepo subscription.SubscriptionRepository
	confirmationRepo subscription.ConfirmationRepository
	txManager        TransactionManager
	tokens           TokenGenerator
	notifier         ReminderNotifier
	catalog          ProductCatalog
	customers        CustomerDirectory
	publisher        EventPublisher
	tokenValidity    time.Duration
	logger           logger.Interface
	now              func() time.Time
}

func NewReminderIssuer(
	subscriptionRepo subscription.SubscriptionRepository,
	confirmationRepo subscription.ConfirmationRepository,
	txManager TransactionManager,
	tokens TokenGenerator,
	notifier ReminderNotifier,
	catalog ProductCatalog,
	customers CustomerDirectory,
	publisher EventPublisher,
	tokenValidity time.Duration,
	logger logger.Interface,
) *ReminderIssuer {
	return &ReminderIssuer{
		subscriptionRepo: subscriptionRepo,
		confirmationRepo: confirmationRepo,
		txManager:        txManager,
		tokens:           tokens,
		notifier:         notifier,
		catalog:          catalog,
		customers:        customers,
		publisher:        publisher,
		tokenValidity:    tokenValidity,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

// Issue runs the reuse-or-create step and then dispatches the reminder if
// the token has never been delivered. A dispatch failure is returned
// wrapped in ErrReminderDispatchFailed together with a non-nil result: the
// confirmation stays persisted and the next sweep retries the email.
func (uc *ReminderIssuer) Issue(ctx context.Context, sub *subscription.Subscription, customMessageHTML string) (*IssueReminderResult, error) {
	if !sub.IsActive() {
		return nil, fmt.Errorf("%w (status: %s)", subscription.ErrSubscriptionNotActive, sub.Status())
	}

	now := uc.now()
	confirmation, reused, err := uc.obtainConfirmation(ctx, sub, now)
	if err != nil {
		return nil, err
	}

	result := &IssueReminderResult{Confirmation: confirmation, Reused: reused}
	if !confirmation.NeedsDispatch() {
		uc.logger.Debugw("reminder already delivered for cycle",
			"subscription_id", sub.ID(),
			"confirmation_id", confirmation.ID(),
		)
		return result, nil
	}

	sendErr := uc.dispatch(ctx, sub, confirmation, customMessageHTML)
	if sendErr != nil {
		confirmation.RecordDispatchFailure(sendErr)
	} else {
		confirmation.RecordDispatchSuccess(uc.now())
	}

	if err := uc.confirmationRepo.UpdateDispatch(ctx, confirmation); err != nil {
		// The email may already be out; the next sweep can resend it.
		uc.logger.Warnw("failed to record reminder dispatch",
			"confirmation_id", confirmation.ID(),
			"error", err,
		)
	}

	if sendErr != nil {
		uc.logger.Warnw("reminder dispatch failed",
			"subscription_id", sub.ID(),
			"confirmation_id", confirmation.ID(),
			"attempts", confirmation.DispatchAttempts(),
			"error", sendErr,
		)
		return result, fmt.Errorf("%w: %v", subscription.ErrReminderDispatchFailed, sendErr)
	}

	result.Dispatched = true
	uc.publish(ctx, subscription.NewReminderIssuedEvent(confirmation, reused, now))

	uc.logger.Infow("reminder sent",
		"subscription_id", sub.ID(),
		"confirmation_id", confirmation.ID(),
		"scheduled_delivery_date", biztime.FormatDate(confirmation.ScheduledDeliveryDate()),
		"reused", reused,
	)
	return result, nil
}

func (uc *ReminderIssuer) obtainConfirmation(ctx context.Context, sub *subscription.Subscription, now time.Time) (*subscription.Confirmation, bool, error) {
	existing, err := uc.confirmationRepo.FindActiveForCycle(ctx, sub.ID(), sub.NextDeliveryDate(), now)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up active confirmation: %w", err)
	}
	if existing != nil {
		return existing, true, nil
	}

	token, err := uc.tokens.Generate()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	confirmation, err := subscription.NewConfirmation(sub.ID(), token, sub.NextDeliveryDate(), now, uc.tokenValidity)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build confirmation: %w", err)
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.confirmationRepo.ReleaseExpiredCycle(txCtx, sub.ID(), sub.NextDeliveryDate(), now); err != nil {
			return err
		}
		return uc.confirmationRepo.Create(txCtx, confirmation)
	})
	if err == nil {
		return confirmation, false, nil
	}
	if !errors.Is(err, subscription.ErrActiveConfirmationExists) {
		return nil, false, fmt.Errorf("failed to create confirmation: %w", err)
	}

	// A concurrent issuer won the cycle slot; use its token.
	winner, err := uc.confirmationRepo.FindActiveForCycle(ctx, sub.ID(), sub.NextDeliveryDate(), now)
	if err != nil {
		return nil, false, fmt.Errorf("failed to reload active confirmation: %w", err)
	}
	if winner == nil {
		return nil, false, fmt.Errorf("active confirmation vanished for subscription %d", sub.ID())
	}
	return winner, true, nil
}

func (uc *ReminderIssuer) dispatch(ctx context.Context, sub *subscription.Subscription, confirmation *subscription.Confirmation, customMessageHTML string) error {
	customer, err := uc.customers.GetCustomer(ctx, sub.UserID())
	if err != nil {
		return fmt.Errorf("customer lookup: %w", err)
	}
	if customer == nil || customer.Email == "" {
		return fmt.Errorf("customer %d has no email address", sub.UserID())
	}

	product, err := uc.catalog.GetProduct(ctx, sub.ProductID())
	if err != nil {
		return fmt.Errorf("product lookup: %w", err)
	}
	productName := fmt.Sprintf("Product #%d", sub.ProductID())
	if product != nil && product.Name != "" {
		productName = product.Name
	}

	return uc.notifier.SendReminder(ctx, ReminderMessage{
		RecipientEmail:    customer.Email,
		RecipientName:     customer.Name,
		ProductName:       productName,
		ScheduledDate:     confirmation.ScheduledDeliveryDate(),
		Token:             confirmation.Token(),
		CustomMessageHTML: customMessageHTML,
	})
}

func (uc *ReminderIssuer) publish(ctx context.Context, event subscription.Event) {
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warnw("failed to publish event",
			"event_type", event.GetEventType(),
			"aggregate_id", event.GetAggregateID(),
			"error", err,
		)
	}
}
