package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AdminToken        string `mapstructure:"ADMIN_TOKEN"`

	// Calendar store: "mongo", "firestore" or "memory".
	StoreDriver  string `mapstructure:"STORE_DRIVER"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Firestore configuration.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Mutation concurrency control.
	LockDriver            string `mapstructure:"LOCK_DRIVER"` // "redis", "local" or "none"
	LockTTLSeconds        int    `mapstructure:"LOCK_TTL_SECONDS"`
	MutationRetryAttempts int    `mapstructure:"MUTATION_RETRY_ATTEMPTS"`
	MutationRetryDelayMS  int    `mapstructure:"MUTATION_RETRY_DELAY_MS"`

	// Audit sink: "queue" or "log".
	AuditDriver string `mapstructure:"AUDIT_DRIVER"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("ADMIN_TOKEN", "")
	viper.SetDefault("STORE_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "bookingcal")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("FIREBASE_PROJECT_ID", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LOCK_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("LOCK_DRIVER", "redis")
	viper.SetDefault("LOCK_TTL_SECONDS", 10)
	viper.SetDefault("MUTATION_RETRY_ATTEMPTS", 5)
	viper.SetDefault("MUTATION_RETRY_DELAY_MS", 20)
	viper.SetDefault("AUDIT_DRIVER", "queue")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// LockTTL is the lease duration for per-date mutation locks.
func LockTTL() time.Duration {
	if AppConfig.LockTTLSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(AppConfig.LockTTLSeconds) * time.Second
}

// MutationRetryDelay is the first backoff delay after a version conflict.
func MutationRetryDelay() time.Duration {
	if AppConfig.MutationRetryDelayMS <= 0 {
		return 20 * time.Millisecond
	}
	return time.Duration(AppConfig.MutationRetryDelayMS) * time.Millisecond
}
