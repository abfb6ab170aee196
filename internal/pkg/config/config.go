// Package config reads the storefront settings from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DevSecret signs admin tokens when JWT_SECRET is unset in development.
const DevSecret = "dev-secret-change-me"

type Config struct {
	// Env is APP_ENV; only "development" may run without JWT_SECRET.
	Env string

	HTTPAddr string
	GRPCAddr string

	// RedisAddr empty disables the order cache.
	RedisAddr     string
	OrderCacheTTL time.Duration

	// SQLitePath empty keeps orders in memory and disables the placement journal.
	SQLitePath string

	JWTSecret string
	// InsecureJWTSecret is set when JWTSecret fell back to DevSecret.
	InsecureJWTSecret bool

	ProcessingDelay      time.Duration
	RedirectDelay        time.Duration
	TrackingPollInterval time.Duration
	NotificationTTL      time.Duration

	LogLevel string

	OTelEnabled     bool
	OTelServiceName string
	OTelEndpoint    string
	OTelEnvironment string
	OTelSampleRatio float64
}

// Load reads .env (if any) and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:        getEnv("GRPC_ADDR", ":9090"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		SQLitePath:      os.Getenv("SQLITE_PATH"),
		Env:             getEnv("APP_ENV", "development"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		OTelEnabled:     getEnv("OTEL_ENABLED", "0") == "1",
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "storefront"),
		OTelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelEnvironment: getEnv("OTEL_RESOURCE_ATTRIBUTES_ENV", "local"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != "development" {
			return Config{}, fmt.Errorf("config: JWT_SECRET is required when APP_ENV=%s", cfg.Env)
		}
		cfg.JWTSecret = DevSecret
		cfg.InsecureJWTSecret = true
	}

	ratio, err := strconv.ParseFloat(getEnv("OTEL_SAMPLE_RATIO", "1"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("config: OTEL_SAMPLE_RATIO: %w", err)
	}
	cfg.OTelSampleRatio = ratio

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"ORDER_CACHE_TTL", "5m", &cfg.OrderCacheTTL},
		{"PROCESSING_DELAY", "1500ms", &cfg.ProcessingDelay},
		{"REDIRECT_DELAY", "2s", &cfg.RedirectDelay},
		{"TRACKING_POLL_INTERVAL", "5s", &cfg.TrackingPollInterval},
		{"NOTIFICATION_TTL", "5s", &cfg.NotificationTTL},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", d.key, err)
		}
		if v < 0 {
			return Config{}, fmt.Errorf("config: %s must not be negative", d.key)
		}
		*d.dst = v
	}
	if cfg.TrackingPollInterval == 0 {
		return Config{}, errors.New("config: TRACKING_POLL_INTERVAL must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
