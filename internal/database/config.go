package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fintrack/internal/config"
)

// PoolConfig holds connection pool limits.
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// poolFor returns the pool limits for a driver. SQLite serializes writers,
// so it gets a single connection.
func poolFor(driver string) PoolConfig {
	if driver == config.DriverSQLite {
		return PoolConfig{MaxIdleConns: 1, MaxOpenConns: 1, ConnMaxLifetime: 0}
	}
	return PoolConfig{MaxIdleConns: 10, MaxOpenConns: 100, ConnMaxLifetime: time.Hour}
}

// dialector selects the gorm driver for cfg.DBDriver.
func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.New(postgres.Config{
			DSN:                  cfg.PostgresDSN(),
			PreferSimpleProtocol: true, // Required for Supabase Supavisor; harmless for direct connections
		}), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DBPath + "?_foreign_keys=on"), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
}

// gormConfig silences gorm's own logger outside development; request and
// error logging goes through zap instead.
func gormConfig(cfg *config.Config) *gorm.Config {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Silent
	}
	return &gorm.Config{Logger: gormlogger.Default.LogMode(level)}
}
