// Package ratelimit provides a small injectable fixed-window limiter.
package ratelimit

import (
	"sync"
	"time"
)

type entry struct {
	count  int
	resets time.Time
}

// Limiter counts hits per key inside a fixed window. It is safe for
// concurrent use and holds no package-level state; inject one instance
// wherever limiting is needed.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	keys   map[string]*entry
	now    func() time.Time
}

func New(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		limit:  limit,
		window: window,
		keys:   make(map[string]*entry),
		now:    time.Now,
	}
}

// Allow reports whether another hit for key fits in the current window,
// counting it if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.keys[key]
	if !ok || now.After(e.resets) {
		l.prune(now)
		l.keys[key] = &entry{count: 1, resets: now.Add(l.window)}
		return true
	}
	if e.count >= l.limit {
		return false
	}
	e.count++
	return true
}

// prune drops expired windows; called under mu on window rollover so the
// map cannot grow unboundedly with one-off keys.
func (l *Limiter) prune(now time.Time) {
	for k, e := range l.keys {
		if now.After(e.resets) {
			delete(l.keys, k)
		}
	}
}
