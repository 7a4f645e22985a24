package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/harvestbox/subscriptions/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.ProductModel{}, &models.UserModel{}))
	return db
}

func TestProductCatalogAdapter_GetProduct(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.ProductModel{ID: 7, Name: "Organic Veggie Box", ImageURL: "https://cdn.example.com/veggie.jpg"}).Error)
	catalog := NewProductCatalogAdapter(db)

	product, err := catalog.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Organic Veggie Box", product.Name)
	assert.Equal(t, "https://cdn.example.com/veggie.jpg", product.ImageURL)

	missing, err := catalog.GetProduct(context.Background(), 8)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCustomerDirectoryAdapter_GetCustomer(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.UserModel{ID: 3, Email: "lan@example.com", Name: "Lan Nguyen"}).Error)
	directory := NewCustomerDirectoryAdapter(db)

	customer, err := directory.GetCustomer(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "lan@example.com", customer.Email)

	missing, err := directory.GetCustomer(context.Background(), 4)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
