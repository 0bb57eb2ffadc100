package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// NotifyPolicy bounds best-effort event publishing. Exhaustion is expected
// to be swallowed by the caller after logging.
func NotifyPolicy(log *zap.Logger) Policy {
	return Policy{
		Name:     "notify_publish",
		Attempts: 3,
		Backoff:  ExpoJitter{Base: 100 * time.Millisecond, Max: 2 * time.Second, Jitter: 0.2},
		Retryable: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("publish retry", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("publish retries exhausted", zap.Error(err))
			}
		},
	}
}
