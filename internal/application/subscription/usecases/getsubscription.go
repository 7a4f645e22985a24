package usecases

import (
	"context"

	"github.com/harvestbox/subscriptions/internal/application/subscription/dto"
	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/shared/errors"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

type GetSubscriptionQuery struct {
	SubscriptionID uint
	UserID         uint
}

type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(subscriptionRepo subscription.SubscriptionRepository, logger logger.Interface) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, query GetSubscriptionQuery) (*dto.SubscriptionDTO, error) {
	sub, err := loadOwnedSubscription(ctx, uc.subscriptionRepo, query.SubscriptionID, query.UserID)
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to get subscription", "subscription_id", query.SubscriptionID, "error", err)
		}
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}

type ListUserSubscriptionsQuery struct {
	UserID   uint
	Status   string
	Page     int
	PageSize int
}

type ListUserSubscriptionsResult struct {
	Subscriptions []*dto.SubscriptionDTO
	Total         int64
}

type ListUserSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewListUserSubscriptionsUseCase(subscriptionRepo subscription.SubscriptionRepository, logger logger.Interface) *ListUserSubscriptionsUseCase {
	return &ListUserSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *ListUserSubscriptionsUseCase) Execute(ctx context.Context, query ListUserSubscriptionsQuery) (*ListUserSubscriptionsResult, error) {
	filter := subscription.SubscriptionFilter{
		UserID:   &query.UserID,
		Page:     query.Page,
		PageSize: query.PageSize,
		SortBy:   "next_delivery_date",
	}
	if query.Status != "" {
		status, err := vo.ParseSubscriptionStatus(query.Status)
		if err != nil {
			return nil, errors.NewValidationError("status must be one of active, paused, cancelled")
		}
		filter.Status = &status
	}

	subs, total, err := uc.subscriptionRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list subscriptions", "user_id", query.UserID, "error", err)
		return nil, err
	}

	return &ListUserSubscriptionsResult{
		Subscriptions: dto.ToSubscriptionDTOs(subs),
		Total:         total,
	}, nil
}
