package scenario

import "time"

// Scenario describes one synthetic fraud payload to replay against an
// external detection endpoint.
type Scenario struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	URL           string        `json:"url"`
	BodyTemplate  string        `json:"body_template"`
	BearerToken   string        `json:"bearer_token,omitempty"`
	InsecureTLS   bool          `json:"insecure_tls"`
	Delay         time.Duration `json:"delay"`
	MaxIterations int           `json:"max_iterations"`
	Active        bool          `json:"active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Capped reports whether iteration would exceed the scenario's cap.
// MaxIterations == 0 means unbounded.
func (s *Scenario) Capped(iteration int) bool {
	return s.MaxIterations > 0 && iteration > s.MaxIterations
}
