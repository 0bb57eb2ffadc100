package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mPasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_passes_total", Help: "Completed scheduler passes",
	})
	mPassErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_pass_errors_total", Help: "Passes aborted by an error",
	})
	mPassDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "scheduler_pass_duration_seconds", Help: "Scheduler pass duration",
		Buckets: prometheus.DefBuckets,
	})

	mRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "executor_requests_total", Help: "Scenario requests attempted",
	})
	mRequestOK = promauto.NewCounter(prometheus.CounterOpts{
		Name: "executor_request_success_total", Help: "Requests with a 2xx response",
	})
	mRequestFail = promauto.NewCounter(prometheus.CounterOpts{
		Name: "executor_request_failed_total", Help: "Requests that failed (transport or non-2xx)",
	})
	mDeactivated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "executor_scenarios_deactivated_total", Help: "Scenarios deactivated at their iteration cap",
	})
	mErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "executor_errors_total", Help: "Store or publish errors during execution",
	})
	mLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "executor_request_latency_seconds",
		Help:    "Outbound request latency",
		Buckets: prometheus.DefBuckets,
	})
)
