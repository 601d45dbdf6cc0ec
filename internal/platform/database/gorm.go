// File: internal/platform/database/gorm.go
package database

import (
	"context"
	"fmt"
	"time"

	"estate_leads_backend/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	publicApplicationName  = "estate-leads-public"
	serviceApplicationName = "estate-leads-service"
)

// NewPublicDB connects with the anonymous credential. Queries on this handle are
// subject to row-level security.
func NewPublicDB(cfg *config.Config, logger *zap.Logger) (*PublicDB, func(), error) {
	db, cleanup, err := open(cfg, logger.Named("db.public"), cfg.DBPublicUser, cfg.DBPublicPassword, publicApplicationName)
	if err != nil {
		return nil, nil, fmt.Errorf("public tier: %w", err)
	}
	return &PublicDB{DB: db}, cleanup, nil
}

// NewServiceDB connects with the privileged credential used by admin routes.
func NewServiceDB(cfg *config.Config, logger *zap.Logger) (*ServiceDB, func(), error) {
	db, cleanup, err := open(cfg, logger.Named("db.service"), cfg.DBServiceUser, cfg.DBServicePassword, serviceApplicationName)
	if err != nil {
		return nil, nil, fmt.Errorf("service tier: %w", err)
	}
	return &ServiceDB{DB: db}, cleanup, nil
}

func open(cfg *config.Config, logger *zap.Logger, user, password, applicationName string) (*gorm.DB, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN(user, password, applicationName))
	if err != nil {
		return nil, nil, fmt.Errorf("parse pool config: %w", err)
	}
	if cfg.DBMaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 && cfg.DBMaxIdleConns <= cfg.DBMaxOpenConns {
		poolCfg.MinConns = int32(cfg.DBMaxIdleConns / 2)
	}
	if cfg.DBConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.DBConnMaxLifetime
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         NewGormLogger(logger, cfg.LogLevel, 200*time.Millisecond),
		TranslateError: true,
	})
	if err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	logger.Info("Connected to the database", zap.String("user", user), zap.String("application_name", applicationName))

	cleanup := func() {
		logger.Info("Closing database connection...")
		if err := sqlDB.Close(); err != nil {
			logger.Error("Error closing database connection", zap.Error(err))
		}
		pool.Close()
	}
	return db, cleanup, nil
}

// Migrate runs GORM auto-migration on the service tier.
func Migrate(ctx context.Context, db *ServiceDB, models ...interface{}) error {
	return db.WithContext(WithTier(ctx, TierService)).AutoMigrate(models...)
}
