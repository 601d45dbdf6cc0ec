// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	AuthProviderFirebase = "firebase"
	AuthProviderJWT      = "jwt"

	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"

	GuardBackendMemory = "memory"
	GuardBackendRedis  = "redis"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Database Configuration. The public tier is the anonymous, row-level-security
	// bound credential; the service tier bypasses RLS and backs admin routes only.
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBPublicUser      string        `mapstructure:"DB_PUBLIC_USER"`
	DBPublicPassword  string        `mapstructure:"DB_PUBLIC_PASSWORD"`
	DBServiceUser     string        `mapstructure:"DB_SERVICE_USER"`
	DBServicePassword string        `mapstructure:"DB_SERVICE_PASSWORD"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBAutoMigrate     bool          `mapstructure:"DB_AUTO_MIGRATE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Auth
	AuthProvider                  string        `mapstructure:"AUTH_PROVIDER"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	JWTTTL                        time.Duration `mapstructure:"JWT_TTL_MINUTES"`
	FirebaseServiceAccountKeyPath string        `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string        `mapstructure:"FIREBASE_PROJECT_ID"`

	// File storage
	StorageDriver        string `mapstructure:"STORAGE_DRIVER"`
	StorageLocalPath     string `mapstructure:"STORAGE_LOCAL_PATH"`
	StoragePublicBaseURL string `mapstructure:"STORAGE_PUBLIC_BASE_URL"`
	S3Bucket             string `mapstructure:"S3_BUCKET"`
	S3Region             string `mapstructure:"S3_REGION"`
	S3Endpoint           string `mapstructure:"S3_ENDPOINT"`
	S3AccessKeyID        string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey    string `mapstructure:"S3_SECRET_ACCESS_KEY"`

	// Intake forms
	SellerFileMaxBytes int64         `mapstructure:"SELLER_FILE_MAX_BYTES"`
	ResumeMaxBytes     int64         `mapstructure:"RESUME_MAX_BYTES"`
	IntakeSessionTTL   time.Duration `mapstructure:"INTAKE_SESSION_TTL_MINUTES"`
	SubmitGuardBackend string        `mapstructure:"SUBMIT_GUARD_BACKEND"`
	SubmitGuardTTL     time.Duration `mapstructure:"SUBMIT_GUARD_TTL_SECONDS"`
	RedisURL           string        `mapstructure:"REDIS_URL"`

	// Listings presentation
	PlaceholderImageURL string `mapstructure:"PLACEHOLDER_IMAGE_URL"`
	DefaultAddress      string `mapstructure:"DEFAULT_ADDRESS"`
	DefaultCurrency     string `mapstructure:"DEFAULT_CURRENCY"`

	// Cron Jobs
	PostingArchiveJobSchedule string `mapstructure:"POSTING_ARCHIVE_JOB_SCHEDULE"`
	JobPostingLifespanDays    int    `mapstructure:"JOB_POSTING_LIFESPAN_DAYS"`

	// Elasticsearch Configuration. Empty disables indexing.
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.JWTTTL = time.Duration(v.GetInt("JWT_TTL_MINUTES")) * time.Minute
	cfg.IntakeSessionTTL = time.Duration(v.GetInt("INTAKE_SESSION_TTL_MINUTES")) * time.Minute
	cfg.SubmitGuardTTL = time.Duration(v.GetInt("SUBMIT_GUARD_TTL_SECONDS")) * time.Second

	cfg.AuthProvider = strings.ToLower(strings.TrimSpace(cfg.AuthProvider))
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	cfg.SubmitGuardBackend = strings.ToLower(strings.TrimSpace(cfg.SubmitGuardBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "estate_leads_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_PUBLIC_USER", "anon")
	v.SetDefault("DB_PUBLIC_PASSWORD", "anon")
	v.SetDefault("DB_SERVICE_USER", "service_role")
	v.SetDefault("DB_SERVICE_PASSWORD", "password")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 50)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("AUTH_PROVIDER", AuthProviderJWT)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL_MINUTES", 60)
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	v.SetDefault("STORAGE_DRIVER", StorageDriverLocal)
	v.SetDefault("STORAGE_LOCAL_PATH", "./uploads")
	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "/uploads")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "me-central-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")

	v.SetDefault("SELLER_FILE_MAX_BYTES", 1<<20)
	v.SetDefault("RESUME_MAX_BYTES", 5<<20)
	v.SetDefault("INTAKE_SESSION_TTL_MINUTES", 120)
	v.SetDefault("SUBMIT_GUARD_BACKEND", GuardBackendMemory)
	v.SetDefault("SUBMIT_GUARD_TTL_SECONDS", 60)
	v.SetDefault("REDIS_URL", "")

	v.SetDefault("PLACEHOLDER_IMAGE_URL", "/images/placeholder-property.jpg")
	v.SetDefault("DEFAULT_ADDRESS", "Dubai")
	v.SetDefault("DEFAULT_CURRENCY", "AED")

	v.SetDefault("POSTING_ARCHIVE_JOB_SCHEDULE", "@daily")
	v.SetDefault("JOB_POSTING_LIFESPAN_DAYS", 90)

	v.SetDefault("ELASTICSEARCH_URL", "")
}

// Validate checks the cross-field requirements of the loaded configuration.
func (c *Config) Validate() error {
	switch c.AuthProvider {
	case AuthProviderFirebase:
		if strings.TrimSpace(c.FirebaseServiceAccountKeyPath) == "" {
			return fmt.Errorf("FIREBASE_SERVICE_ACCOUNT_KEY_PATH is required when AUTH_PROVIDER=firebase")
		}
		if _, err := os.Stat(c.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
			return fmt.Errorf("firebase service account key file (%s) not found", c.FirebaseServiceAccountKeyPath)
		}
	case AuthProviderJWT:
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_PROVIDER=jwt")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.AuthProvider)
	}

	switch c.StorageDriver {
	case StorageDriverLocal:
		if strings.TrimSpace(c.StorageLocalPath) == "" {
			return fmt.Errorf("STORAGE_LOCAL_PATH is required when STORAGE_DRIVER=local")
		}
	case StorageDriverS3:
		if strings.TrimSpace(c.S3Bucket) == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.SubmitGuardBackend {
	case GuardBackendMemory:
	case GuardBackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("REDIS_URL is required when SUBMIT_GUARD_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unsupported SUBMIT_GUARD_BACKEND %q", c.SubmitGuardBackend)
	}

	if c.DBPublicUser == c.DBServiceUser {
		return fmt.Errorf("DB_PUBLIC_USER and DB_SERVICE_USER must be distinct credentials")
	}
	if c.SellerFileMaxBytes <= 0 || c.ResumeMaxBytes <= 0 {
		return fmt.Errorf("file size caps must be positive")
	}
	return nil
}

// DSN builds a libpq style connection string for the given credential pair.
func (c *Config) DSN(user, password, applicationName string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s application_name=%s",
		c.DBHost, c.DBPort, user, password, c.DBName, c.DBSSLMode, c.DBTimezone, applicationName)
}
