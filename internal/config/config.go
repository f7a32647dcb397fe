package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"orderdesk/internal/logger"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Config struct {
	APIBaseURL     string
	AppEnv         string
	RequestTimeout time.Duration

	SearchDebounce  time.Duration
	SearchCacheSize int

	MaxQuantity       int
	MaxUnitPrice      decimal.Decimal
	RequireFutureDate bool

	RateLimitRPS   float64
	RateLimitBurst int
	BreakerEnabled bool

	StubAddr string
}

// LoadConfig reads .env (if any) and the process environment.
// Unset or malformed values fall back to defaults.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		AppEnv:         getEnv("APP_ENV", "development"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),

		SearchDebounce:  getDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		SearchCacheSize: getInt("SEARCH_CACHE_SIZE", 100),

		MaxQuantity:       getInt("MAX_QUANTITY", 1000),
		MaxUnitPrice:      getDecimal("MAX_UNIT_PRICE", decimal.NewFromInt(1_000_000)),
		RequireFutureDate: getBool("REQUIRE_FUTURE_EVENT_DATE", true),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 1),
		BreakerEnabled: getBool("BREAKER_ENABLED", true),

		StubAddr: getEnv("STUB_ADDR", ":8080"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		invalid(key, raw, err)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		invalid(key, raw, err)
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		invalid(key, raw, err)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		invalid(key, raw, err)
		return fallback
	}
	return d
}

func getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		invalid(key, raw, err)
		return fallback
	}
	return d
}

func invalid(key, raw string, err error) {
	logger.L().Warn("invalid config value, using default",
		zap.String("key", key),
		zap.String("value", raw),
		zap.Error(err),
	)
}
