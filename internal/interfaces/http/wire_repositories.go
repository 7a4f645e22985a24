package http

import (
	"gorm.io/gorm"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	"github.com/harvestbox/subscriptions/internal/infrastructure/repository"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	subscriptionRepo subscription.SubscriptionRepository
	confirmationRepo subscription.ConfirmationRepository
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		subscriptionRepo: repository.NewSubscriptionRepository(db, log),
		confirmationRepo: repository.NewConfirmationRepository(db, log),
	}
}
