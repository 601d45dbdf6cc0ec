package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_TIMEOUT_SECONDS", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, AuthProviderJWT, cfg.AuthProvider)
	assert.Equal(t, int64(1<<20), cfg.SellerFileMaxBytes)
	assert.Equal(t, int64(5<<20), cfg.ResumeMaxBytes)
	assert.Equal(t, "Dubai", cfg.DefaultAddress)
	assert.Equal(t, "12s", cfg.ServerTimeout.String())
	assert.Equal(t, "2h0m0s", cfg.IntakeSessionTTL.String())
	assert.NotEqual(t, cfg.DBPublicUser, cfg.DBServiceUser)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_SameCredentialForBothTiers(t *testing.T) {
	cfg := validConfig()
	cfg.DBServiceUser = cfg.DBPublicUser

	err := cfg.Validate()
	assert.ErrorContains(t, err, "distinct")
}

func TestValidate_RedisGuardNeedsURL(t *testing.T) {
	cfg := validConfig()
	cfg.SubmitGuardBackend = GuardBackendRedis

	assert.Error(t, cfg.Validate())

	cfg.RedisURL = "redis://localhost:6379/0"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_S3NeedsBucket(t *testing.T) {
	cfg := validConfig()
	cfg.StorageDriver = StorageDriverS3

	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	cfg := validConfig()
	dsn := cfg.DSN("anon", "pw", "estate-public")

	assert.Contains(t, dsn, "user=anon")
	assert.Contains(t, dsn, "application_name=estate-public")
}

func validConfig() *Config {
	return &Config{
		DBHost:             "localhost",
		DBPort:             "5432",
		DBName:             "db",
		DBSSLMode:          "disable",
		DBTimezone:         "UTC",
		DBPublicUser:       "anon",
		DBServiceUser:      "service_role",
		AuthProvider:       AuthProviderJWT,
		JWTSecret:          "secret",
		StorageDriver:      StorageDriverLocal,
		StorageLocalPath:   "./uploads",
		SubmitGuardBackend: GuardBackendMemory,
		SellerFileMaxBytes: 1 << 20,
		ResumeMaxBytes:     5 << 20,
	}
}
