package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/fraudlab/fraudsim/internal/domain/notify"
	"github.com/fraudlab/fraudsim/internal/domain/scenario"
	"github.com/fraudlab/fraudsim/internal/obs/retry"
)

type Config struct {
	Tick    time.Duration
	Backoff time.Duration
}

// Scheduler drives periodic passes over active scenarios. The supervisory
// loop (Run) lives for the whole process; Start and Stop only flip the
// run-state that gates whether a tick performs a pass.
//
// Run-state invariant: running and cancel change together under mu, and at
// most one live cancellation handle exists at a time. Stop swaps the handle
// out under the lock and cancels the copy outside it; a second cancel of the
// same context is a no-op, so Start/Stop races cannot corrupt the pair.
type Scheduler struct {
	log       *zap.Logger
	scenarios scenario.Repo
	exec      *Executor
	pub       notify.Publisher
	pubPolicy retry.Policy

	tick    time.Duration
	backoff time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	passCtx context.Context
	closed  bool
}

func New(log *zap.Logger, scenarios scenario.Repo, exec *Executor, pub notify.Publisher, cfg Config) *Scheduler {
	tick := cfg.Tick
	if tick <= 0 {
		tick = time.Second
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 10 * time.Second
	}
	return &Scheduler{
		log:       log,
		scenarios: scenarios,
		exec:      exec,
		pub:       pub,
		pubPolicy: retry.NotifyPolicy(log),
		tick:      tick,
		backoff:   backoff,
	}
}

// Start transitions stopped->running. Idempotent; safe to call concurrently
// with Stop and with the supervisory loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.closed || s.running {
		s.mu.Unlock()
		return
	}
	pctx, cancel := context.WithCancel(context.Background())
	s.passCtx, s.cancel = pctx, cancel
	s.running = true
	s.mu.Unlock()

	s.log.Info("scheduler started")
	s.publishStatus(true)
}

// Stop transitions running->stopped and cancels any in-flight pass.
// It does not wait for an in-flight HTTP call to finish, but no new scenario
// processing begins after it returns. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.cancel, s.passCtx = nil, nil
	s.running = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.log.Info("scheduler stopped")
	s.publishStatus(false)
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) snapshot() (bool, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.passCtx
}

// Run is the supervisory loop. It only returns when ctx (process lifetime)
// is done; pass errors are logged and followed by a backoff delay.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			running, pctx := s.snapshot()
			if !running {
				continue
			}
			if err := s.pass(pctx); err != nil && !errors.Is(err, context.Canceled) {
				mPassErrors.Inc()
				s.log.Warn("pass error", zap.Error(err))
				if !sleep(ctx, s.backoff) {
					return ctx.Err()
				}
			}
		}
	}
}

// pass executes one sweep over all currently-active scenarios, sequentially,
// pacing with each scenario's delay and abandoning the remainder on
// cancellation.
func (s *Scheduler) pass(ctx context.Context) error {
	start := time.Now()

	tr := otel.Tracer("scheduler")
	ctx, span := tr.Start(ctx, "scheduler.pass")
	defer span.End()

	active, err := s.scenarios.ListActive(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.Int("pass.scenarios", len(active)))

	for _, sc := range active {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.exec.Execute(ctx, sc)
		if sc.Delay > 0 {
			if !sleep(ctx, sc.Delay) {
				return ctx.Err()
			}
		}
	}

	mPasses.Inc()
	mPassDur.Observe(time.Since(start).Seconds())
	return nil
}

// Close tears the scheduler down for process shutdown: run-state off first,
// then the cancellation handle, then logging.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.running = false
	cancel := s.cancel
	s.cancel, s.passCtx = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.log.Info("scheduler closed")
	_ = s.log.Sync()
}

func (s *Scheduler) publishStatus(running bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := retry.Do(ctx, func() error {
		return s.pub.PublishStatusChanged(ctx, running)
	}, s.pubPolicy)
	if err != nil {
		s.log.Warn("publish status change", zap.Bool("running", running), zap.Error(err))
	}
}

// sleep waits d or until ctx is done; reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
