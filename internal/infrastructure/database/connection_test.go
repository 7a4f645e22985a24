package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestbox/subscriptions/internal/shared/config"
)

func TestOpen_SQLiteInMemory(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", Database: ":memory:"}

	db, err := Open(cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestInitGetClose(t *testing.T) {
	require.NoError(t, Init(&config.DatabaseConfig{Driver: "sqlite", Database: ":memory:"}))
	assert.NotNil(t, Get())
	assert.NoError(t, Close())
}
