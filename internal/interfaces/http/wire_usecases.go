package http

import (
	subscriptionUsecases "github.com/harvestbox/subscriptions/internal/application/subscription/usecases"
	"github.com/harvestbox/subscriptions/internal/infrastructure/config"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Subscription
	createSubscriptionUC    *subscriptionUsecases.CreateSubscriptionUseCase
	getSubscriptionUC       *subscriptionUsecases.GetSubscriptionUseCase
	listUserSubscriptionsUC *subscriptionUsecases.ListUserSubscriptionsUseCase
	pauseSubscriptionUC     *subscriptionUsecases.PauseSubscriptionUseCase
	resumeSubscriptionUC    *subscriptionUsecases.ResumeSubscriptionUseCase
	cancelSubscriptionUC    *subscriptionUsecases.CancelSubscriptionUseCase

	// Reminders
	reminderIssuer           *subscriptionUsecases.ReminderIssuer
	sendDueRemindersUC       *subscriptionUsecases.SendDueRemindersUseCase
	sendAdminRemindersUC     *subscriptionUsecases.SendAdminRemindersUseCase
	getConfirmationDetailsUC *subscriptionUsecases.GetConfirmationDetailsUseCase
	processConfirmationUC    *subscriptionUsecases.ProcessConfirmationUseCase
	getReminderStatsUC       *subscriptionUsecases.GetReminderStatsUseCase
}

func newUseCases(repos *repositories, svcs *services, cfg *config.Config, log logger.Interface) *allUseCases {
	ucs := &allUseCases{}

	ucs.createSubscriptionUC = subscriptionUsecases.NewCreateSubscriptionUseCase(repos.subscriptionRepo, svcs.catalog, log)
	ucs.getSubscriptionUC = subscriptionUsecases.NewGetSubscriptionUseCase(repos.subscriptionRepo, log)
	ucs.listUserSubscriptionsUC = subscriptionUsecases.NewListUserSubscriptionsUseCase(repos.subscriptionRepo, log)
	ucs.pauseSubscriptionUC = subscriptionUsecases.NewPauseSubscriptionUseCase(repos.subscriptionRepo, log)
	ucs.resumeSubscriptionUC = subscriptionUsecases.NewResumeSubscriptionUseCase(repos.subscriptionRepo, log)
	ucs.cancelSubscriptionUC = subscriptionUsecases.NewCancelSubscriptionUseCase(repos.subscriptionRepo, log)

	ucs.reminderIssuer = subscriptionUsecases.NewReminderIssuer(
		repos.subscriptionRepo, repos.confirmationRepo, svcs.txManager, svcs.tokens,
		svcs.notifier, svcs.catalog, svcs.customers, svcs.publisher,
		cfg.Reminder.TokenValidity(), log.Named("reminder"),
	)
	ucs.sendDueRemindersUC = subscriptionUsecases.NewSendDueRemindersUseCase(
		repos.subscriptionRepo, ucs.reminderIssuer, svcs.sweepLock,
		cfg.Reminder.WindowDays, cfg.Reminder.SweepTimeout(), log.Named("reminder"),
	)
	ucs.sendAdminRemindersUC = subscriptionUsecases.NewSendAdminRemindersUseCase(
		repos.subscriptionRepo, ucs.reminderIssuer, svcs.renderer, log,
	)
	ucs.getConfirmationDetailsUC = subscriptionUsecases.NewGetConfirmationDetailsUseCase(
		repos.subscriptionRepo, repos.confirmationRepo, svcs.catalog, log,
	)
	ucs.processConfirmationUC = subscriptionUsecases.NewProcessConfirmationUseCase(
		repos.subscriptionRepo, repos.confirmationRepo, svcs.txManager, svcs.publisher, log,
	)
	ucs.getReminderStatsUC = subscriptionUsecases.NewGetReminderStatsUseCase(repos.subscriptionRepo, repos.confirmationRepo, log)

	return ucs
}
