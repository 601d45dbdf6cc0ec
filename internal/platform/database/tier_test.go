package database_test

import (
	"context"
	"errors"
	"testing"

	"estate_leads_backend/internal/platform/database"
	"estate_leads_backend/internal/platform/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tierProbe struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func TestServiceDB_RejectsUnstampedContext(t *testing.T) {
	_, serviceDB := dbtest.Open(t, &tierProbe{})

	err := serviceDB.WithContext(context.Background()).Create(&tierProbe{Name: "x"}).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, database.ErrTierViolation))

	publicCtx := database.WithTier(context.Background(), database.TierPublic)
	var rows []tierProbe
	err = serviceDB.WithContext(publicCtx).Find(&rows).Error
	assert.True(t, errors.Is(err, database.ErrTierViolation))
}

func TestServiceDB_AllowsServiceTier(t *testing.T) {
	_, serviceDB := dbtest.Open(t, &tierProbe{})
	ctx := dbtest.AdminContext()

	require.NoError(t, serviceDB.WithContext(ctx).Create(&tierProbe{Name: "ok"}).Error)

	var rows []tierProbe
	require.NoError(t, serviceDB.WithContext(ctx).Find(&rows).Error)
	assert.Len(t, rows, 1)
}

func TestTierFrom_DefaultsToPublic(t *testing.T) {
	assert.Equal(t, database.TierPublic, database.TierFrom(context.Background()))
	assert.Equal(t, database.TierService, database.TierFrom(dbtest.AdminContext()))
}
