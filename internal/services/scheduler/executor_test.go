package scheduler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fraudlab/fraudsim/internal/domain/result"
	"github.com/fraudlab/fraudsim/internal/domain/scenario"
)

func newTestExecutor(scenarios *memScenarioRepo, results *memResultRepo, pub *capturePublisher) *Executor {
	return NewExecutor(zap.NewNop(), scenarios, results, pub, 5*time.Second)
}

func TestExecuteRecordsSuccess(t *testing.T) {
	var gotAuth, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"verdict":"clean"}`))
	}))
	defer srv.Close()

	sc := &scenario.Scenario{
		ID: 1, Name: "wire", URL: srv.URL, Active: true,
		BodyTemplate: `{"n": {{iteration}}}`, BearerToken: "tok-123",
	}
	scenarios := newMemScenarioRepo(sc)
	results := &memResultRepo{}
	pub := &capturePublisher{}

	newTestExecutor(scenarios, results, pub).Execute(context.Background(), sc)

	require.Len(t, results.rows, 1)
	row := results.rows[0]
	require.Equal(t, 1, row.Iteration)
	require.Equal(t, http.StatusOK, row.StatusCode)
	require.True(t, row.Success)
	require.Equal(t, `{"verdict":"clean"}`, row.Response)
	require.Empty(t, row.Error)
	require.Equal(t, `{"n": 1}`, row.Payload)
	require.Equal(t, row.Payload, gotBody)
	require.Equal(t, "Bearer tok-123", gotAuth)
	require.Equal(t, "application/json", gotContentType)

	evs := pub.resultEvents()
	require.Len(t, evs, 1)
	require.Equal(t, row.ID, evs[0].ResultID)
	require.Equal(t, "wire", evs[0].ScenarioName)
	require.True(t, evs[0].Success)
}

func TestExecuteRecordsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sc := &scenario.Scenario{ID: 1, Name: "wire", URL: srv.URL, Active: true}
	results := &memResultRepo{}
	pub := &capturePublisher{}

	newTestExecutor(newMemScenarioRepo(sc), results, pub).Execute(context.Background(), sc)

	require.Len(t, results.rows, 1)
	row := results.rows[0]
	require.Equal(t, http.StatusInternalServerError, row.StatusCode)
	require.False(t, row.Success)
	require.Equal(t, "HTTP 500: Internal Server Error", row.Error)
	require.Empty(t, row.Response)

	evs := pub.resultEvents()
	require.Len(t, evs, 1)
	require.False(t, evs[0].Success)
	require.Equal(t, http.StatusInternalServerError, evs[0].StatusCode)
}

func TestExecuteRecordsTransportFailure(t *testing.T) {
	// Nothing listens here; the dial fails before any HTTP response exists.
	sc := &scenario.Scenario{ID: 1, Name: "wire", URL: "http://127.0.0.1:1", Active: true}
	results := &memResultRepo{}
	pub := &capturePublisher{}

	newTestExecutor(newMemScenarioRepo(sc), results, pub).Execute(context.Background(), sc)

	require.Len(t, results.rows, 1)
	row := results.rows[0]
	require.Equal(t, 0, row.StatusCode)
	require.False(t, row.Success)
	require.NotEmpty(t, row.Error)
	require.Len(t, pub.resultEvents(), 1)
}

// ctxBoundResultRepo refuses writes once the caller's context is done, the
// way a database-backed repo would.
type ctxBoundResultRepo struct {
	memResultRepo
}

func (m *ctxBoundResultRepo) Insert(ctx context.Context, r *result.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.memResultRepo.Insert(ctx, r)
}

func TestExecuteCancelledMidRequestStillRecordsFailure(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	sc := &scenario.Scenario{ID: 1, Name: "wire", URL: srv.URL, Active: true}
	results := &ctxBoundResultRepo{}
	pub := &capturePublisher{}
	exec := NewExecutor(zap.NewNop(), newMemScenarioRepo(sc), results, pub, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	exec.Execute(ctx, sc)

	rows, err := results.ListByScenario(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1, "aborted attempt must leave a row")
	require.Equal(t, 0, rows[0].StatusCode)
	require.False(t, rows[0].Success)
	require.Contains(t, rows[0].Error, "context canceled")
	require.Len(t, pub.resultEvents(), 1)
}

func TestExecuteTruncatedBodyKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Promise more bytes than are sent so the client's body read fails.
		w.Header().Set("Content-Length", "100")
		_, _ = w.Write([]byte("partial"))
	}))
	defer srv.Close()

	sc := &scenario.Scenario{ID: 1, Name: "wire", URL: srv.URL, Active: true}
	results := &memResultRepo{}

	newTestExecutor(newMemScenarioRepo(sc), results, &capturePublisher{}).Execute(context.Background(), sc)

	require.Len(t, results.rows, 1)
	row := results.rows[0]
	require.Equal(t, http.StatusOK, row.StatusCode)
	require.False(t, row.Success)
	require.Contains(t, row.Error, "read response body")
	require.Empty(t, row.Response)
}

func TestExecuteEnforcesIterationCap(t *testing.T) {
	sc := &scenario.Scenario{ID: 1, Name: "wire", URL: "http://127.0.0.1:1", Active: true, MaxIterations: 2}
	scenarios := newMemScenarioRepo(sc)
	results := &memResultRepo{}
	for i := 1; i <= 2; i++ {
		require.NoError(t, results.Insert(context.Background(), rowFor(1, i)))
	}
	pub := &capturePublisher{}

	newTestExecutor(scenarios, results, pub).Execute(context.Background(), sc)

	require.Len(t, results.rows, 2, "no request past the cap")
	require.False(t, scenarios.active(1))
	require.Empty(t, pub.resultEvents())
}

func TestExecuteCapReTripsOnReactivation(t *testing.T) {
	// Historical rows persist, so reactivating a capped scenario without
	// clearing them deactivates it again on the very next attempt.
	sc := &scenario.Scenario{ID: 1, Name: "wire", URL: "http://127.0.0.1:1", Active: true, MaxIterations: 2}
	scenarios := newMemScenarioRepo(sc)
	results := &memResultRepo{}
	for i := 1; i <= 2; i++ {
		require.NoError(t, results.Insert(context.Background(), rowFor(1, i)))
	}

	exec := newTestExecutor(scenarios, results, &capturePublisher{})
	exec.Execute(context.Background(), sc)
	require.False(t, scenarios.active(1))

	require.NoError(t, scenarios.SetActive(context.Background(), 1, true))
	exec.Execute(context.Background(), sc)
	require.False(t, scenarios.active(1))
	require.Len(t, results.rows, 2)
}

func TestExecuteInsecureTLSOptIn(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	results := &memResultRepo{}
	pub := &capturePublisher{}
	verify := &scenario.Scenario{ID: 1, Name: "strict", URL: srv.URL, Active: true}
	bypass := &scenario.Scenario{ID: 2, Name: "lab", URL: srv.URL, Active: true, InsecureTLS: true}
	exec := newTestExecutor(newMemScenarioRepo(verify, bypass), results, pub)

	exec.Execute(context.Background(), verify)
	exec.Execute(context.Background(), bypass)

	require.Len(t, results.rows, 2)
	require.Equal(t, 0, results.rows[0].StatusCode, "self-signed cert rejected by default")
	require.False(t, results.rows[0].Success)
	require.Equal(t, http.StatusOK, results.rows[1].StatusCode)
	require.True(t, results.rows[1].Success)
}

func TestExecuteSwallowsPublishFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sc := &scenario.Scenario{ID: 1, Name: "wire", URL: srv.URL, Active: true}
	results := &memResultRepo{}
	pub := &capturePublisher{err: errors.New("broker down")}

	newTestExecutor(newMemScenarioRepo(sc), results, pub).Execute(context.Background(), sc)

	require.Len(t, results.rows, 1, "result persisted even when publish fails")
	require.True(t, results.rows[0].Success)
}

func TestExecuteIterationNumbersIncrease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sc := &scenario.Scenario{ID: 1, Name: "wire", URL: srv.URL, Active: true}
	results := &memResultRepo{}
	exec := newTestExecutor(newMemScenarioRepo(sc), results, &capturePublisher{})

	for i := 0; i < 4; i++ {
		exec.Execute(context.Background(), sc)
	}

	require.Len(t, results.rows, 4)
	for i, row := range results.rows {
		require.Equal(t, i+1, row.Iteration)
	}
}
