// Package dbtest opens throwaway SQLite databases behind both credential tiers.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"estate_leads_backend/internal/platform/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns public and service handles over one in-memory database with the
// given models migrated.
func Open(t *testing.T, models ...interface{}) (*database.PublicDB, *database.ServiceDB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return &database.PublicDB{DB: db}, &database.ServiceDB{DB: db}
}

// AdminContext returns a context stamped for the service tier.
func AdminContext() context.Context {
	return database.WithTier(context.Background(), database.TierService)
}
