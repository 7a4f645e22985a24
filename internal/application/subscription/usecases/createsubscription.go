package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/harvestbox/subscriptions/internal/application/subscription/dto"
	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/shared/biztime"
	"github.com/harvestbox/subscriptions/internal/shared/errors"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

type CreateSubscriptionCommand struct {
	UserID          uint
	ProductID       uint
	Frequency       string
	Quantity        int
	DiscountPercent float64
	// StartDate defaults to today when nil.
	StartDate *time.Time
}

type CreateSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	catalog          ProductCatalog
	logger           logger.Interface
	now              func() time.Time
}

func NewCreateSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	catalog ProductCatalog,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		catalog:          catalog,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	frequency, err := vo.ParseFrequency(cmd.Frequency)
	if err != nil {
		return nil, errors.NewValidationError("frequency must be one of weekly, biweekly, monthly")
	}

	now := uc.now()
	startDate := biztime.DateOf(now)
	if cmd.StartDate != nil {
		startDate = biztime.NormalizeDate(*cmd.StartDate)
		if startDate.Before(biztime.DateOf(now)) {
			return nil, errors.NewValidationError("startDate cannot be in the past")
		}
	}

	product, err := uc.catalog.GetProduct(ctx, cmd.ProductID)
	if err != nil {
		uc.logger.Errorw("failed to get product", "product_id", cmd.ProductID, "error", err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, errors.NewNotFoundError("Product not found")
	}

	sub, err := subscription.NewSubscription(cmd.UserID, cmd.ProductID, frequency, cmd.Quantity, cmd.DiscountPercent, startDate, now)
	if err != nil {
		return nil, toAppError(err)
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		uc.logger.Errorw("failed to create subscription", "user_id", cmd.UserID, "error", err)
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	uc.logger.Infow("subscription created",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
		"product_id", sub.ProductID(),
		"frequency", sub.Frequency().String(),
		"next_delivery_date", biztime.FormatDate(sub.NextDeliveryDate()),
	)
	return dto.ToSubscriptionDTO(sub), nil
}
