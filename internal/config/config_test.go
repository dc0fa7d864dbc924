package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "hotel")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "hotel")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_PASS", "")
	t.Setenv("BOOKING_EVENTS_ENABLED", "")
	t.Setenv("BOOKING_LOCK_TTL", "")

	cfg := Load()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DBPass)
	assert.True(t, cfg.DBMigrate)
	assert.Equal(t, 10*time.Second, cfg.Lock.TTL)
	assert.Equal(t, 50*time.Millisecond, cfg.Lock.RetryDelay)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, "logs", cfg.Events.LogDir)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_MIGRATE", "off")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("BOOKING_LOCK_TTL", "3s")
	t.Setenv("BOOKING_LOCK_RETRIES", "5")
	t.Setenv("BOOKING_EVENTS_ENABLED", "true")
	t.Setenv("RABBITMQ_URL", "amqp://u:p@mq:5672/")
	t.Setenv("BOOKING_EVENT_LOG_DIR", "/var/log/hotel")

	cfg := Load()

	assert.False(t, cfg.DBMigrate)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.Lock.TTL)
	assert.Equal(t, 5, cfg.Lock.Retries)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "amqp://u:p@mq:5672/", cfg.Events.RabbitMQURL)
	assert.Equal(t, "/var/log/hotel", cfg.Events.LogDir)
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()

	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestLoadRateLimitConfig_BurstAndRefillEvery(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "500ms")

	cfg := LoadRateLimitConfig()

	assert.Equal(t, 5, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 500*time.Millisecond, cfg.RefillInterval)
}

func TestEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "maybe")

	assert.Equal(t, 7, envInt("X_INT", 7))
	assert.Equal(t, time.Minute, envDur("X_DUR", time.Minute))
	assert.True(t, envBool("X_BOOL", true))
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "1")

	opts := RedisOptions()

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.NotNil(t, opts.TLSConfig)
}
