package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/config"
	"fintrack/internal/models"
)

func TestSQLiteManager(t *testing.T) {
	cfg := &config.Config{
		Env:      "test",
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "ledger.db"),
	}

	m, err := NewManager(cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, m.Close()) }()

	require.NoError(t, m.Migrate())
	require.NoError(t, m.Ping(context.Background()))

	for _, model := range models.All() {
		assert.True(t, m.DB().Migrator().HasTable(model), "missing table for %T", model)
	}

	// Idempotent.
	require.NoError(t, m.Migrate())
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := NewManager(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)

	_, err = NewMigrator(&config.Config{DBDriver: config.DriverSQLite})
	assert.Error(t, err)
}

func TestPoolFor(t *testing.T) {
	assert.Equal(t, 1, poolFor(config.DriverSQLite).MaxOpenConns)
	assert.Equal(t, 100, poolFor(config.DriverPostgres).MaxOpenConns)
}
