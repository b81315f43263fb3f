package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.MySQL.MaxOpenConns)
	assert.Equal(t, 10, cfg.MySQL.MaxIdleConns)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, "document.classify", cfg.RabbitMQ.ClassifyQueue)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("MYSQL_MAX_OPEN_CONNS", "20")
	t.Setenv("MYSQL_MAX_IDLE_CONNS", "4")
	t.Setenv("REDIS_POOL_SIZE", "25")
	t.Setenv("RABBITMQ_CLASSIFY_QUEUE", "classify.staging")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.MySQL.MaxOpenConns)
	assert.Equal(t, 4, cfg.MySQL.MaxIdleConns)
	assert.Equal(t, 25, cfg.Redis.PoolSize)
	assert.Equal(t, "classify.staging", cfg.RabbitMQ.ClassifyQueue)
}
