package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, time.Second, cfg.Sched.Tick)
	require.Equal(t, 10*time.Second, cfg.Sched.Backoff)
	require.Equal(t, 30*time.Second, cfg.Sched.HTTPTimeout)
	require.Equal(t, "redis", cfg.Notify.Driver)
	require.Equal(t, "fraudsim", cfg.Notify.Redis.ChannelPrefix)
	require.Equal(t, []string{"localhost:9094"}, cfg.Notify.Kafka.Brokers)
	require.Equal(t, ":8080", cfg.API.Addr)
	require.Equal(t, 10, cfg.API.RateLimit.Requests)
	require.Equal(t, time.Minute, cfg.API.RateLimit.Window)
	require.Equal(t, "info", cfg.LogLevel)
	require.Contains(t, cfg.DB.DSN, "fraudsim")
	require.False(t, cfg.OTEL.Enable)
}
