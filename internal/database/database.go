package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"fintrack/internal/config"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// Manager owns the database connection and schema migrations.
type Manager struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewManager opens the database described by cfg and applies pool limits.
func NewManager(cfg *config.Config) (*Manager, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	pool := poolFor(cfg.DBDriver)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)

	return &Manager{db: db, cfg: cfg}, nil
}

// Migrate brings the schema up to date. Postgres runs the SQL migrations in
// cfg.MigrationsPath; SQLite is migrated from the models.
func (m *Manager) Migrate() error {
	log := logger.Get()

	if m.cfg.DBDriver == config.DriverSQLite {
		log.Infow("Auto-migrating SQLite schema", "path", m.cfg.DBPath)
		if err := m.db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		return nil
	}

	log.Infow("Running database migrations", "source", m.cfg.MigrationsPath)
	mig, err := NewMigrator(m.cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(mig)

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// NewMigrator returns a golang-migrate instance for the Postgres database in cfg.
func NewMigrator(cfg *config.Config) (*migrate.Migrate, error) {
	if cfg.DBDriver != config.DriverPostgres {
		return nil, fmt.Errorf("SQL migrations require the %s driver, got %s", config.DriverPostgres, cfg.DBDriver)
	}
	mig, err := migrate.New("file://"+cfg.MigrationsPath, cfg.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mig, nil
}

func closeMigrator(mig *migrate.Migrate) {
	srcErr, dbErr := mig.Close()
	if srcErr != nil {
		logger.Get().Warnf("migrate source close error: %v", srcErr)
	}
	if dbErr != nil {
		logger.Get().Warnf("migrate database close error: %v", dbErr)
	}
}

// Ping checks the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}
