package infra

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"clubsure"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"clubsure"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"clubsure"`

	// JWT
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`

	// Server
	APIPort int `env:"API_PORT" envDefault:"3200"`

	// Storage
	StorageType      string        `env:"STORAGE_TYPE" envDefault:"local"`
	StorageBasePath  string        `env:"STORAGE_BASE_PATH" envDefault:"./data/documents"`
	StorageBaseURL   string        `env:"STORAGE_BASE_URL"`
	S3Bucket         string        `env:"S3_BUCKET"`
	S3Region         string        `env:"S3_REGION" envDefault:"eu-west-2"`
	S3Endpoint       string        `env:"S3_ENDPOINT"`
	S3AccessKey      string        `env:"S3_ACCESS_KEY"`
	S3SecretKey      string        `env:"S3_SECRET_KEY"`
	StorageTimeout   time.Duration `env:"STORAGE_TIMEOUT" envDefault:"15s"`
	SignedURLExpiry  time.Duration `env:"SIGNED_URL_EXPIRY" envDefault:"15m"`
	MaxFileSizeBytes int64         `env:"MAX_FILE_SIZE_BYTES" envDefault:"10485760"`

	// Reminder worker
	ReminderThresholdDays []int         `env:"REMINDER_THRESHOLD_DAYS" envDefault:"30,7,0" envSeparator:","`
	ReminderInterval      time.Duration `env:"REMINDER_INTERVAL" envDefault:"24h"`
	ReminderWorkerEnabled bool          `env:"REMINDER_WORKER_ENABLED" envDefault:"false"`

	// Kafka
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for insecure or inconsistent configuration that must
// not run in production. Set ALLOW_INSECURE_DEFAULTS=true to bypass the
// secret checks (local dev only).
func (c *Config) Validate() error {
	if c.StorageType != "local" && c.StorageType != "s3" {
		return fmt.Errorf("STORAGE_TYPE must be local or s3, got %q", c.StorageType)
	}
	if c.StorageType == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when STORAGE_TYPE=s3")
	}
	for _, d := range c.ReminderThresholdDays {
		if d < 0 {
			return fmt.Errorf("REMINDER_THRESHOLD_DAYS must be non-negative, got %d", d)
		}
	}
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set a strong secret or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars); minimum 32 characters required", len(c.JWTSecret))
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
