package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danmuck/coresim/internal/arch"
	"github.com/danmuck/coresim/internal/dispatch"
)

var (
	registerOnce sync.Once

	dispatchOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coresim",
			Subsystem: "dispatch",
			Name:      "outcomes_total",
			Help:      "Worker loop outcomes per execution unit.",
		},
		[]string{"unit", "outcome"},
	)
	retirements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coresim",
			Subsystem: "retire",
			Name:      "instructions_total",
			Help:      "Instructions retired, by fault presence.",
		},
		[]string{"faulted"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coresim",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coresim",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(dispatchOutcomes, retirements, httpRequests, httpDuration)
	})
}

// DispatchObserver adapts the metrics surface to the worker trace hook.
func DispatchObserver() dispatch.ObserveFunc {
	RegisterMetrics()
	return func(unit arch.Unit, outcome dispatch.Outcome, _ *arch.Instruction) {
		dispatchOutcomes.WithLabelValues(unit.String(), outcome.String()).Inc()
	}
}

func RecordRetirement(faulted bool) {
	RegisterMetrics()
	retirements.WithLabelValues(strconv.FormatBool(faulted)).Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
