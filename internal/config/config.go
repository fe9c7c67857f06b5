// Package config reads server settings from the environment, after loading
// an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skufu/vitalcalc/internal/risk"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	StoreDriver     string
	DatabaseURL     string
	SQLitePath      string
	RedisAddr       string
	CacheTTL        time.Duration
	DataDir         string
	WatchData       bool
	RateLimit       int
	CORSOrigins     []string
	RiskDenominator risk.Denominator
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "release"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "vitalcalc.db"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		DataDir:     os.Getenv("DATA_DIR"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "10m")); err != nil {
		return nil, fmt.Errorf("CACHE_TTL: %w", err)
	}
	if cfg.WatchData, err = strconv.ParseBool(getEnv("WATCH_DATA", "false")); err != nil {
		return nil, fmt.Errorf("WATCH_DATA: %w", err)
	}
	if cfg.RateLimit, err = strconv.Atoi(getEnv("RATE_LIMIT", "60")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT: %w", err)
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("RATE_LIMIT must not be negative")
	}
	if cfg.RiskDenominator, err = risk.ParseDenominator(os.Getenv("RISK_DENOMINATOR")); err != nil {
		return nil, fmt.Errorf("RISK_DENOMINATOR: %w", err)
	}

	switch cfg.StoreDriver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.WatchData && cfg.DataDir == "" {
		return nil, fmt.Errorf("DATA_DIR is required when WATCH_DATA=true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
