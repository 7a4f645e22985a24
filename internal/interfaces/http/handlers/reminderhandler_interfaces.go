package handlers

import (
	"context"

	subdto "github.com/harvestbox/subscriptions/internal/application/subscription/dto"
	"github.com/harvestbox/subscriptions/internal/application/subscription/usecases"
)

// Use case interfaces for ReminderHandler

type reminderSweepUseCase interface {
	Sweep(ctx context.Context) (*subdto.SweepResultDTO, error)
}

type getConfirmationDetailsUseCase interface {
	Execute(ctx context.Context, token string) (*subdto.ConfirmationDetailsDTO, error)
}

type processConfirmationUseCase interface {
	Execute(ctx context.Context, cmd usecases.ProcessConfirmationCommand) (*subdto.ConfirmationResultDTO, error)
}

type getReminderStatsUseCase interface {
	Execute(ctx context.Context) (*subdto.ReminderStatsDTO, error)
}

type sendAdminRemindersUseCase interface {
	Execute(ctx context.Context, cmd usecases.SendAdminRemindersCommand) (*subdto.AdminReminderResultDTO, error)
}
