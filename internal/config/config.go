package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName          = "CoreBank"
	defaultAppEnv           = "development"
	defaultPort             = "8080"
	defaultLogLevel         = "info"
	defaultShutdownDelay    = 10 * time.Second
	defaultIdempotencyTTL   = 24 * time.Hour
	defaultCacheTTL         = 10 * time.Minute
	defaultAccountAmount    = 1000
	defaultCommission       = 0.1
	defaultCreateUserLimit  = 20
	idemTTLSecondsEnvVar    = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar        = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
	cacheTTLSecondsEnvVar   = "CACHE_TTL_SECONDS"
	cacheTTLDurEnvVar       = "CACHE_TTL"
	accountAmountEnvVar     = "ACCOUNT_DEFAULT_AMOUNT"
	commissionEnvVar        = "ACCOUNT_TRANSFER_COMMISSION"
	createUserLimitEnvVar   = "CREATE_USER_RATE_LIMIT"
	dotenvFileEnvVar        = "DOTENV_FILE"
	defaultDotenvFile       = ".env"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	CacheTTL       time.Duration

	// DefaultAccountAmount is the starting balance of every new account.
	DefaultAccountAmount int64
	// TransferCommission is the fraction withheld on transfers between users.
	TransferCommission float64
	// CreateUserRateLimit caps user registrations per client IP per minute.
	CreateUserRateLimit int
}

// Load reads configuration values from the environment and populates a Config
// instance. Variables from a .env file (or DOTENV_FILE) fill in anything the
// process environment leaves unset.
func Load() (Config, error) {
	if err := loadDotenv(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:              getEnv("APP_NAME", defaultAppName),
		AppEnv:               strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:                 getEnv("PORT", defaultPort),
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		DefaultAccountAmount: defaultAccountAmount,
		TransferCommission:   defaultCommission,
		CreateUserRateLimit:  defaultCreateUserLimit,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = durationFromEnv(cacheTTLSecondsEnvVar, cacheTTLDurEnvVar, defaultCacheTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv(accountAmountEnvVar); v != "" {
		amount, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", accountAmountEnvVar, err)
		}
		cfg.DefaultAccountAmount = amount
	}

	if v := os.Getenv(commissionEnvVar); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", commissionEnvVar, err)
		}
		cfg.TransferCommission = rate
	}

	if v := os.Getenv(createUserLimitEnvVar); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", createUserLimitEnvVar, err)
		}
		cfg.CreateUserRateLimit = limit
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and the backends required outside development.
func (c Config) Validate() error {
	if c.DefaultAccountAmount < 0 {
		return fmt.Errorf("%s must not be negative", accountAmountEnvVar)
	}
	if c.TransferCommission < 0 || c.TransferCommission >= 1 {
		return fmt.Errorf("%s must be in [0, 1), got %v", commissionEnvVar, c.TransferCommission)
	}
	if c.IsDev() {
		return nil
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", c.AppEnv)
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", c.AppEnv)
	}
	return nil
}

// IsDev reports whether the app runs in a development environment, where
// missing Postgres or Redis fall back to in-memory stores.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func loadDotenv() error {
	path := getEnv(dotenvFileEnvVar, defaultDotenvFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && path == defaultDotenvFile {
			return nil
		}
		return fmt.Errorf("dotenv file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
