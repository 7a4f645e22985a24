package http

import (
	"github.com/harvestbox/subscriptions/internal/interfaces/http/handlers"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	subscriptionHandler *handlers.SubscriptionHandler
	reminderHandler     *handlers.ReminderHandler
}

func newHandlers(ucs *allUseCases, log logger.Interface) *allHandlers {
	return &allHandlers{
		subscriptionHandler: handlers.NewSubscriptionHandler(
			ucs.createSubscriptionUC,
			ucs.getSubscriptionUC,
			ucs.listUserSubscriptionsUC,
			ucs.pauseSubscriptionUC,
			ucs.resumeSubscriptionUC,
			ucs.cancelSubscriptionUC,
			log,
		),
		reminderHandler: handlers.NewReminderHandler(
			ucs.sendDueRemindersUC,
			ucs.getConfirmationDetailsUC,
			ucs.processConfirmationUC,
			ucs.getReminderStatsUC,
			ucs.sendAdminRemindersUC,
			log,
		),
	}
}
