package notify

import (
	"context"
	"time"
)

// ResultEvent is the summary broadcast after each recorded attempt.
type ResultEvent struct {
	ResultID     int64     `json:"result_id"`
	ScenarioID   int64     `json:"scenario_id"`
	ScenarioName string    `json:"scenario_name"`
	Iteration    int       `json:"iteration"`
	Timestamp    time.Time `json:"timestamp"`
	LatencyMS    int64     `json:"latency_ms"`
	Success      bool      `json:"success"`
	StatusCode   int       `json:"status_code"`
	Error        string    `json:"error,omitempty"`
}

// StatusEvent signals a scheduler on/off transition.
type StatusEvent struct {
	Running bool      `json:"running"`
	At      time.Time `json:"at"`
}

// Publisher is the fire-and-forget channel the core pushes events to.
// Implementations must not block indefinitely; callers treat failures as
// log-only.
type Publisher interface {
	PublishStatusChanged(ctx context.Context, running bool) error
	PublishResult(ctx context.Context, ev ResultEvent) error
}
