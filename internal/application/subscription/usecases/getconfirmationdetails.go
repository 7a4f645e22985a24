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

// GetConfirmationDetailsUseCase resolves a reminder token for display. It
// never mutates state, so reloading the confirmation page is harmless.
type GetConfirmationDetailsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	confirmationRepo subscription.ConfirmationRepository
	catalog          ProductCatalog
	logger           logger.Interface
	now              func() time.Time
}

func NewGetConfirmationDetailsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	confirmationRepo subscription.ConfirmationRepository,
	catalog ProductCatalog,
	logger logger.Interface,
) *GetConfirmationDetailsUseCase {
	return &GetConfirmationDetailsUseCase{
		subscriptionRepo: subscriptionRepo,
		confirmationRepo: confirmationRepo,
		catalog:          catalog,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

func (uc *GetConfirmationDetailsUseCase) Execute(ctx context.Context, token string) (*dto.ConfirmationDetailsDTO, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.NewValidationError("token is required")
	}

	confirmation, err := uc.confirmationRepo.GetByToken(ctx, token)
	if err != nil {
		uc.logger.Errorw("failed to get confirmation by token", "error", err)
		return nil, fmt.Errorf("failed to get confirmation: %w", err)
	}
	if confirmation == nil {
		return nil, toAppError(subscription.ErrConfirmationNotFound)
	}

	sub, err := uc.subscriptionRepo.GetByID(ctx, confirmation.SubscriptionID())
	if err != nil {
		uc.logger.Errorw("failed to get subscription for confirmation",
			"confirmation_id", confirmation.ID(),
			"subscription_id", confirmation.SubscriptionID(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, toAppError(subscription.ErrSubscriptionNotFound)
	}

	details := &dto.ConfirmationDetailsDTO{
		Token:                 confirmation.Token(),
		SubscriptionID:        sub.ID(),
		ProductID:             sub.ProductID(),
		Quantity:              sub.Quantity(),
		Frequency:             sub.Frequency().String(),
		SubscriptionStatus:    sub.Status().String(),
		ScheduledDeliveryDate: biztime.FormatDate(confirmation.ScheduledDeliveryDate()),
		FollowingDeliveryDate: biztime.FormatDate(sub.Frequency().NextDeliveryDate(confirmation.ScheduledDeliveryDate())),
		ExpiresAt:             confirmation.ExpiresAt(),
		IsExpired:             confirmation.IsExpired(uc.now()),
		IsAlreadyProcessed:    confirmation.IsProcessed(),
		ProcessedAt:           confirmation.ProcessedAt(),
	}
	if confirmation.Action() != vo.ActionUnknown {
		details.Action = confirmation.Action().String()
	}

	// Product data is decoration; a catalog outage must not hide the page.
	product, err := uc.catalog.GetProduct(ctx, sub.ProductID())
	if err != nil {
		uc.logger.Warnw("product lookup failed for confirmation page", "product_id", sub.ProductID(), "error", err)
	} else if product != nil {
		details.ProductName = product.Name
		details.ProductImage = product.ImageURL
	}

	return details, nil
}
