package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/tripdesk/internal/infrastructure/config"
	"github.com/tripdesk/tripdesk/internal/interfaces/cli/bootstrap"
	sharedConfig "github.com/tripdesk/tripdesk/internal/shared/config"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
)

func TestNewLimiterDisabledWithoutRedis(t *testing.T) {
	cfg := &config.Config{RateLimit: sharedConfig.RateLimitConfig{Enabled: true, Limit: 10, Window: time.Minute}}

	limiter, closeFn := newLimiter(cfg, logger.NewNop())
	defer closeFn()

	assert.Nil(t, limiter)
}

func TestNewLimiterUnreachableRedisFailsOpen(t *testing.T) {
	cfg := &config.Config{
		RateLimit: sharedConfig.RateLimitConfig{Enabled: true, Limit: 10, Window: time.Minute},
		Redis:     sharedConfig.RedisConfig{Host: "127.0.0.1", Port: 1},
	}

	limiter, closeFn := newLimiter(cfg, logger.NewNop())
	defer closeFn()

	assert.Nil(t, limiter)
}

func TestStartWarmup(t *testing.T) {
	currencyCfg := sharedConfig.CurrencyConfig{Timeout: time.Second, CacheTTL: time.Hour}
	provider := bootstrap.NewRateProvider(&currencyCfg, logger.NewNop())

	manager, err := startWarmup(&config.Config{Currency: currencyCfg}, provider, logger.NewNop())
	require.NoError(t, err)
	assert.Nil(t, manager)

	currencyCfg.WarmupInterval = time.Hour
	manager, err = startWarmup(&config.Config{Currency: currencyCfg}, provider, logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, manager)
	defer func() { assert.NoError(t, manager.Stop()) }()

	assert.True(t, manager.IsStarted())
	require.Len(t, manager.Jobs(), 1)
	assert.Equal(t, "currency-rate-warmup", manager.Jobs()[0].Name())
}

func TestNewCommand(t *testing.T) {
	cmd := NewCommand(&bootstrap.Options{})
	assert.Equal(t, "server", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}
