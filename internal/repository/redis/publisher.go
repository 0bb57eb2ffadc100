package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fraudlab/fraudsim/internal/domain/notify"
)

type Config struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

// Publisher broadcasts scheduler events over Redis PUB/SUB.
// Status events go to "<prefix>.status", result events to "<prefix>.results".
type Publisher struct {
	client *redis.Client
	prefix string
	log    *zap.Logger
}

var _ notify.Publisher = (*Publisher)(nil)

func NewPublisher(cfg Config, l *zap.Logger) *Publisher {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		l.Warn("redis ping failed", zap.String("addr", cfg.Addr), zap.Error(err))
	}

	prefix := cfg.ChannelPrefix
	if prefix == "" {
		prefix = "fraudsim"
	}
	return &Publisher{
		client: rdb,
		prefix: prefix,
		log:    l.With(zap.String("component", "redis.publisher")),
	}
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, running bool) error {
	return p.publish(ctx, p.prefix+".status", notify.StatusEvent{
		Running: running,
		At:      time.Now().UTC(),
	})
}

func (p *Publisher) PublishResult(ctx context.Context, ev notify.ResultEvent) error {
	return p.publish(ctx, p.prefix+".results", ev)
}

func (p *Publisher) publish(ctx context.Context, channel string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, channel, b).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	p.log.Debug("event published", zap.String("channel", channel), zap.Int("bytes", len(b)))
	return nil
}

func (p *Publisher) Close() error { return p.client.Close() }
