package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort            = "8080"
	defaultDatabaseURL     = "studiopromise.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTAccessTTL    = "15m"
	defaultPollInterval    = "10s"
	defaultSweepInterval   = "30s"
	defaultDailyEventLimit = "1"
)

type RuntimeConfig struct {
	AppEnv          string
	Port            string
	DatabaseURL     string
	JWTSecret       string
	JWTAccessTTL    time.Duration
	PollInterval    time.Duration
	SweepInterval   time.Duration
	DailyEventLimit int
}

func LoadRuntimeConfig() (*RuntimeConfig, error) {
	cfg := &RuntimeConfig{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.PollInterval, err = parseDurationEnv("ROUTE_POLL_INTERVAL", defaultPollInterval)
	if err != nil {
		return nil, err
	}

	cfg.SweepInterval, err = parseDurationEnv("REFRESH_SWEEP_INTERVAL", defaultSweepInterval)
	if err != nil {
		return nil, err
	}

	cfg.DailyEventLimit, err = parseIntEnv("DAILY_EVENT_LIMIT", defaultDailyEventLimit)
	if err != nil {
		return nil, err
	}

	if err := validateRuntimeConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateRuntimeConfig(cfg *RuntimeConfig) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("ROUTE_POLL_INTERVAL must be > 0")
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("REFRESH_SWEEP_INTERVAL must be > 0")
	}
	if cfg.DailyEventLimit < 1 {
		return fmt.Errorf("DAILY_EVENT_LIMIT must be >= 1")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
