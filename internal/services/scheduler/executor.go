package scheduler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fraudlab/fraudsim/internal/domain/notify"
	"github.com/fraudlab/fraudsim/internal/domain/result"
	"github.com/fraudlab/fraudsim/internal/domain/scenario"
	"github.com/fraudlab/fraudsim/internal/obs"
	"github.com/fraudlab/fraudsim/internal/obs/retry"
	"github.com/fraudlab/fraudsim/internal/template"
)

const persistTimeout = 5 * time.Second

// Executor processes one scenario per call: exactly one result row (success
// or failure) and at most one result notification. Nothing it does ever
// propagates an error to the pass; failures become data or log lines.
type Executor struct {
	log       *zap.Logger
	scenarios scenario.Repo
	results   result.Repo
	pub       notify.Publisher
	pubPolicy retry.Policy

	client   *http.Client
	insecure *http.Client

	now func() time.Time
}

func NewExecutor(log *zap.Logger, scenarios scenario.Repo, results result.Repo, pub notify.Publisher, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Executor{
		log:       log,
		scenarios: scenarios,
		results:   results,
		pub:       pub,
		pubPolicy: retry.NotifyPolicy(log),
		client:    newHTTPClient(timeout, false),
		insecure:  newHTTPClient(timeout, true),
		now:       time.Now,
	}
}

func (e *Executor) Execute(ctx context.Context, sc *scenario.Scenario) {
	tr := otel.Tracer("scheduler.executor")
	ctx, span := tr.Start(ctx, "scenario.execute",
		trace.WithAttributes(
			attribute.Int64("scenario.id", sc.ID),
			attribute.String("scenario.url", sc.URL),
		),
	)
	defer span.End()

	log := obs.WithTrace(ctx, e.log).With(
		zap.Int64("scenario_id", sc.ID),
		zap.String("scenario", sc.Name),
	)

	count, err := e.results.CountByScenario(ctx, sc.ID)
	if err != nil {
		mErrors.Inc()
		span.RecordError(err)
		log.Warn("count results", zap.Error(err))
		return
	}
	iteration := count + 1
	span.SetAttributes(attribute.Int("scenario.iteration", iteration))

	// Cap enforcement: the (cap+1)-th attempt never happens. No row, no event.
	if sc.Capped(iteration) {
		if err := e.scenarios.SetActive(ctx, sc.ID, false); err != nil {
			mErrors.Inc()
			log.Warn("deactivate scenario", zap.Error(err))
			return
		}
		mDeactivated.Inc()
		log.Info("iteration cap reached, scenario deactivated",
			zap.Int("max_iterations", sc.MaxIterations))
		return
	}

	payload := template.Render(sc.BodyTemplate, iteration)

	client := e.client
	if sc.InsecureTLS {
		client = e.insecure
		log.Debug("tls verification bypassed for scenario endpoint")
	}

	res := &result.Result{
		ScenarioID: sc.ID,
		Iteration:  iteration,
		Payload:    payload,
		Timestamp:  e.now().UTC(),
	}

	mRequests.Inc()
	start := e.now()
	code, body, reqErr := e.send(ctx, client, sc, payload)
	res.LatencyMS = e.now().Sub(start).Milliseconds()

	switch {
	case reqErr != nil:
		// code is 0 when no response arrived; a truncated body keeps its
		// real status alongside the error.
		res.StatusCode = code
		res.Error = reqErr.Error()
	case code >= 200 && code < 300:
		res.StatusCode = code
		res.Success = true
		res.Response = body
	default:
		res.StatusCode = code
		res.Error = fmt.Sprintf("HTTP %d: %s", code, http.StatusText(code))
	}

	if res.Success {
		mRequestOK.Inc()
	} else {
		mRequestFail.Inc()
	}
	mLatency.Observe(float64(res.LatencyMS) / 1000)

	// Stop may cancel the pass while the request is in flight. The aborted
	// attempt is still an attempt, so the row and the event are written on a
	// context detached from that cancellation.
	storeCtx, storeCancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer storeCancel()

	if err := e.results.Insert(storeCtx, res); err != nil {
		mErrors.Inc()
		span.RecordError(err)
		log.Warn("insert result", zap.Error(err))
		return
	}

	ev := notify.ResultEvent{
		ResultID:     res.ID,
		ScenarioID:   sc.ID,
		ScenarioName: sc.Name,
		Iteration:    iteration,
		Timestamp:    res.Timestamp,
		LatencyMS:    res.LatencyMS,
		Success:      res.Success,
		StatusCode:   res.StatusCode,
		Error:        res.Error,
	}
	if err := retry.Do(storeCtx, func() error { return e.pub.PublishResult(storeCtx, ev) }, e.pubPolicy); err != nil {
		mErrors.Inc()
		log.Warn("publish result event", zap.Error(err))
	}

	log.Debug("scenario executed",
		zap.Int("iteration", iteration),
		zap.Int("status", res.StatusCode),
		zap.Bool("success", res.Success),
		zap.Int64("latency_ms", res.LatencyMS),
	)
}

func (e *Executor) send(ctx context.Context, client *http.Client, sc *scenario.Scenario, payload string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sc.URL, strings.NewReader(payload))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if sc.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+sc.BearerToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, string(b), nil
}
