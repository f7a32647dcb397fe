package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"API_BASE_URL", "REQUEST_TIMEOUT", "SEARCH_DEBOUNCE", "SEARCH_CACHE_SIZE",
		"MAX_QUANTITY", "MAX_UNIT_PRICE", "REQUIRE_FUTURE_EVENT_DATE",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "BREAKER_ENABLED", "STUB_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 100, cfg.SearchCacheSize)
	assert.Equal(t, 1000, cfg.MaxQuantity)
	assert.True(t, cfg.MaxUnitPrice.Equal(decimal.NewFromInt(1_000_000)))
	assert.True(t, cfg.RequireFutureDate)
	assert.Equal(t, float64(0), cfg.RateLimitRPS)
	assert.True(t, cfg.BreakerEnabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("API_BASE_URL", "http://orders.internal:9000/")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("MAX_QUANTITY", "10000")
	t.Setenv("MAX_UNIT_PRICE", "2500.50")
	t.Setenv("REQUIRE_FUTURE_EVENT_DATE", "false")
	t.Setenv("RATE_LIMIT_RPS", "5")
	t.Setenv("RATE_LIMIT_BURST", "10")

	cfg := LoadConfig()

	assert.Equal(t, "http://orders.internal:9000", cfg.APIBaseURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10000, cfg.MaxQuantity)
	assert.Equal(t, "2500.5", cfg.MaxUnitPrice.String())
	assert.False(t, cfg.RequireFutureDate)
	assert.Equal(t, float64(5), cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("SEARCH_CACHE_SIZE", "lots")
	t.Setenv("SEARCH_DEBOUNCE", "-1s")
	t.Setenv("MAX_UNIT_PRICE", "-4")
	t.Setenv("BREAKER_ENABLED", "maybe")

	cfg := LoadConfig()

	assert.Equal(t, 100, cfg.SearchCacheSize)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	assert.True(t, cfg.MaxUnitPrice.Equal(decimal.NewFromInt(1_000_000)))
	assert.True(t, cfg.BreakerEnabled)
}
