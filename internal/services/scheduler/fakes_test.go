package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fraudlab/fraudsim/internal/domain/notify"
	"github.com/fraudlab/fraudsim/internal/domain/result"
	"github.com/fraudlab/fraudsim/internal/domain/scenario"
)

func rowFor(scenarioID int64, iteration int) *result.Result {
	return &result.Result{
		ScenarioID: scenarioID,
		Iteration:  iteration,
		StatusCode: 200,
		Success:    true,
		Timestamp:  time.Now().UTC(),
	}
}

type memScenarioRepo struct {
	mu        sync.Mutex
	scenarios map[int64]*scenario.Scenario
	listErr   error
	listCalls int
}

func newMemScenarioRepo(list ...*scenario.Scenario) *memScenarioRepo {
	m := &memScenarioRepo{scenarios: make(map[int64]*scenario.Scenario)}
	for _, s := range list {
		m.scenarios[s.ID] = s
	}
	return m
}

func (m *memScenarioRepo) Create(_ context.Context, s *scenario.Scenario) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[s.ID] = s
	return nil
}

func (m *memScenarioRepo) GetByID(_ context.Context, id int64) (*scenario.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scenarios[id], nil
}

func (m *memScenarioRepo) List(_ context.Context) ([]*scenario.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*scenario.Scenario, 0, len(m.scenarios))
	for _, s := range m.scenarios {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memScenarioRepo) Update(_ context.Context, s *scenario.Scenario) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[s.ID] = s
	return nil
}

func (m *memScenarioRepo) SetActive(_ context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.scenarios[id]; ok {
		s.Active = active
	}
	return nil
}

func (m *memScenarioRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scenarios, id)
	return nil
}

func (m *memScenarioRepo) ListActive(_ context.Context) ([]*scenario.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*scenario.Scenario
	for _, s := range m.scenarios {
		if s.Active {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memScenarioRepo) active(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scenarios[id].Active
}

func (m *memScenarioRepo) listActiveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

type memResultRepo struct {
	mu        sync.Mutex
	rows      []*result.Result
	nextID    int64
	insertErr error
}

func (m *memResultRepo) Insert(_ context.Context, r *result.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.nextID++
	r.ID = m.nextID
	cp := *r
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memResultRepo) CountByScenario(_ context.Context, scenarioID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.ScenarioID == scenarioID {
			n++
		}
	}
	return n, nil
}

func (m *memResultRepo) ListByScenario(_ context.Context, scenarioID int64, _ int) ([]*result.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*result.Result
	for _, r := range m.rows {
		if r.ScenarioID == scenarioID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

type capturePublisher struct {
	mu       sync.Mutex
	statuses []bool
	results  []notify.ResultEvent
	err      error
}

func (p *capturePublisher) PublishStatusChanged(_ context.Context, running bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.statuses = append(p.statuses, running)
	return nil
}

func (p *capturePublisher) PublishResult(_ context.Context, ev notify.ResultEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.results = append(p.results, ev)
	return nil
}

func (p *capturePublisher) statusEvents() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.statuses...)
}

func (p *capturePublisher) resultEvents() []notify.ResultEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.ResultEvent(nil), p.results...)
}
