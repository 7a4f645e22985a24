package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/harvestbox/subscriptions/internal/infrastructure/persistence/models"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.ProductModel{},
		&models.SubscriptionModel{},
		&models.ConfirmationModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the persistence models.
// It is meant for development databases only.
type GormAutoMigrateStrategy struct {
	models []interface{}
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		models: AutoMigrateModels(),
		logger: log.With("component", "migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	s.logger.Infow("starting gorm auto migration", "models_count", len(s.models))

	if err := db.AutoMigrate(s.models...); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}

	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
