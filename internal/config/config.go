package config

import (
	"time"

	"github.com/fraudlab/fraudsim/internal/obs"
	pginfra "github.com/fraudlab/fraudsim/internal/repository/postgres"
	redisinfra "github.com/fraudlab/fraudsim/internal/repository/redis"
)

type SchedCfg struct {
	Tick        time.Duration `mapstructure:"tick"`
	Backoff     time.Duration `mapstructure:"backoff"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

type KafkaCfg struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type NotifyCfg struct {
	Driver string            `mapstructure:"driver"` // "redis" or "kafka"
	Redis  redisinfra.Config `mapstructure:"redis"`
	Kafka  KafkaCfg          `mapstructure:"kafka"`
}

type RateLimitCfg struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type APICfg struct {
	Addr      string       `mapstructure:"addr"`
	RateLimit RateLimitCfg `mapstructure:"rate_limit"`
}

type ServerCfg struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type Config struct {
	DB       pginfra.Config `mapstructure:"db"`
	Sched    SchedCfg       `mapstructure:"sched"`
	Notify   NotifyCfg      `mapstructure:"notify"`
	API      APICfg         `mapstructure:"api"`
	Server   ServerCfg      `mapstructure:"server"`
	OTEL     obs.OTELConfig `mapstructure:"otel"`
	LogLevel string         `mapstructure:"log_level"`
}

func (c *Config) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level: c.LogLevel,
		App:   "fraudsim",
	}
}
