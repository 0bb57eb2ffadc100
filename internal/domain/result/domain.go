package result

import "time"

// Result is one immutable record of a single request attempt.
// StatusCode 0 means the attempt failed before an HTTP response was obtained.
type Result struct {
	ID         int64     `json:"id"`
	ScenarioID int64     `json:"scenario_id"`
	Iteration  int       `json:"iteration"`
	Payload    string    `json:"payload"`
	Response   string    `json:"response,omitempty"`
	StatusCode int       `json:"status_code"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	LatencyMS  int64     `json:"latency_ms"`
	Timestamp  time.Time `json:"timestamp"`
}
