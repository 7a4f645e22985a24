package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/infrastructure/persistence/models"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.SubscriptionModel{},
		&models.ConfirmationModel{},
		&models.ProductModel{},
		&models.UserModel{},
	)
	require.NoError(t, err)

	return db
}

func testLogger() logger.Interface {
	return logger.NewLogger()
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var testNow = time.Date(2025, 1, 18, 5, 0, 0, 0, time.UTC)

func createTestSubscription(t *testing.T, repo *SubscriptionRepositoryImpl, userID uint, freq vo.Frequency, start time.Time) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.NewSubscription(userID, 100, freq, 1, 0, start, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Create(t.Context(), sub))
	return sub
}
