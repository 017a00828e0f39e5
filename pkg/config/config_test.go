package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PROVIDER_API_KEY", "provider-key")
	t.Setenv("PROVIDER_WEBHOOK_SECRET", "webhook-secret")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
}

func TestLoadRedisHostUnsetStaysEmpty(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	// An empty host is what main() keys the in-memory store fallback on
	assert.Equal(t, "", cfg.Redis.Host)
}

func TestLoadRedisHostFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.Equal(t, "redis.internal:6380", cfg.GetRedisAddr())
}

func TestLoadFailsWithoutProviderKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PROVIDER_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadProcessingDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PROCESSING_LOCK_TTL", "")
	t.Setenv("PROCESSING_PIPELINE_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.Processing.LockTTL)
	assert.Equal(t, 8*time.Minute, cfg.Processing.PipelineTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Processing.RecordTTL)
}
