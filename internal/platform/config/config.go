package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr               string
	Environment        string
	LogLevel           string
	DatabaseURL        string
	MigrationsDir      string
	RunMigrations      bool
	RunSeed            bool
	JWTSecret          string
	SessionCookieName  string
	SessionTTL         time.Duration
	OwnerID            string
	OwnerName          string
	OwnerEmail         string
	AccessPasscode     string
	AccessPasscodeHash string
	DataEncryptionKey  string
	FrontendDir        string
	MaxBodyBytes       int64
	S3Bucket           string
	S3Region           string
	S3Endpoint         string
	S3PublicBaseURL    string
	S3UsePathStyle     bool
	MetricsEnabled     bool
}

// Load reads the environment, with an optional .env file in the working
// directory underneath it.
func Load() Config {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()
	v.AutomaticEnv()
	setDefaults(v)

	return Config{
		Addr:               v.GetString("APP_ADDR"),
		Environment:        v.GetString("APP_ENV"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		MigrationsDir:      v.GetString("MIGRATIONS_DIR"),
		RunMigrations:      v.GetBool("RUN_MIGRATIONS"),
		RunSeed:            v.GetBool("RUN_SEED"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		SessionCookieName:  v.GetString("SESSION_COOKIE_NAME"),
		SessionTTL:         v.GetDuration("SESSION_TTL"),
		OwnerID:            v.GetString("OWNER_ID"),
		OwnerName:          v.GetString("OWNER_NAME"),
		OwnerEmail:         v.GetString("OWNER_EMAIL"),
		AccessPasscode:     v.GetString("ACCESS_PASSCODE"),
		AccessPasscodeHash: v.GetString("ACCESS_PASSCODE_HASH"),
		DataEncryptionKey:  v.GetString("DATA_ENCRYPTION_KEY"),
		FrontendDir:        v.GetString("FRONTEND_DIR"),
		MaxBodyBytes:       v.GetInt64("MAX_BODY_BYTES"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Region:           v.GetString("S3_REGION"),
		S3Endpoint:         v.GetString("S3_ENDPOINT"),
		S3PublicBaseURL:    v.GetString("S3_PUBLIC_BASE_URL"),
		S3UsePathStyle:     v.GetBool("S3_USE_PATH_STYLE"),
		MetricsEnabled:     v.GetBool("METRICS_ENABLED"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("RUN_SEED", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_COOKIE_NAME", "app_session_id")
	v.SetDefault("SESSION_TTL", 365*24*time.Hour)
	v.SetDefault("OWNER_ID", "owner")
	v.SetDefault("OWNER_NAME", "Owner")
	v.SetDefault("OWNER_EMAIL", "")
	v.SetDefault("ACCESS_PASSCODE", "")
	v.SetDefault("ACCESS_PASSCODE_HASH", "")
	v.SetDefault("DATA_ENCRYPTION_KEY", "")
	v.SetDefault("FRONTEND_DIR", "client/dist")
	v.SetDefault("MAX_BODY_BYTES", 25<<20)
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")
	v.SetDefault("S3_USE_PATH_STYLE", false)
	v.SetDefault("METRICS_ENABLED", true)
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate rejects configurations that cannot serve requests. A missing
// DATABASE_URL is allowed: reads degrade to empty results and writes fail.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AccessPasscode) == "" && strings.TrimSpace(c.AccessPasscodeHash) == "" {
		return fmt.Errorf("ACCESS_PASSCODE or ACCESS_PASSCODE_HASH is required")
	}
	if strings.TrimSpace(c.OwnerID) == "" {
		return fmt.Errorf("OWNER_ID is required")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.AccessPasscodeHash) == "" {
			return fmt.Errorf("ACCESS_PASSCODE_HASH must be used instead of a plain passcode in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}
