package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/fraudlab/fraudsim/internal/domain/notify"
)

// Publisher broadcasts scheduler events to a Kafka topic as JSON.
type Publisher struct {
	p *Producer
}

func NewPublisher(p *Producer) *Publisher { return &Publisher{p: p} }

var _ notify.Publisher = (*Publisher)(nil)

func (e *Publisher) PublishStatusChanged(ctx context.Context, running bool) error {
	return e.p.PublishJSON(ctx, []byte("scheduler-status"), notify.StatusEvent{
		Running: running,
		At:      time.Now().UTC(),
	})
}

func (e *Publisher) PublishResult(ctx context.Context, ev notify.ResultEvent) error {
	key := []byte(strconv.FormatInt(ev.ScenarioID, 10))
	return e.p.PublishJSON(ctx, key, ev)
}
