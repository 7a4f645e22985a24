package handlers

import (
	"context"

	subdto "github.com/harvestbox/subscriptions/internal/application/subscription/dto"
	"github.com/harvestbox/subscriptions/internal/application/subscription/usecases"
)

// Use case interfaces for SubscriptionHandler

type createSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateSubscriptionCommand) (*subdto.SubscriptionDTO, error)
}

type getSubscriptionUseCase interface {
	Execute(ctx context.Context, query usecases.GetSubscriptionQuery) (*subdto.SubscriptionDTO, error)
}

type listUserSubscriptionsUseCase interface {
	Execute(ctx context.Context, query usecases.ListUserSubscriptionsQuery) (*usecases.ListUserSubscriptionsResult, error)
}

type pauseSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.PauseSubscriptionCommand) error
}

type resumeSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.ResumeSubscriptionCommand) error
}

type cancelSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CancelSubscriptionCommand) error
}
