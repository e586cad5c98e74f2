package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cargovortex"

var (
	dispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "dispatches_total",
			Help:      "Dispatch calls by final transport and result",
		},
		[]string{"transport", "result"},
	)

	attemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "attempts_total",
			Help:      "Individual transport attempts by outcome",
		},
		[]string{"transport", "status"},
	)

	attemptDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "attempt_duration_seconds",
			Help:      "Time spent in one transport attempt",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"transport"},
	)
)

// recordDispatch records a completed dispatch.
func recordDispatch(transport TransportKind, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	dispatchesTotal.WithLabelValues(string(transport), result).Inc()
}

// recordAttempt records one transport attempt.
func recordAttempt(transport TransportKind, status OutcomeStatus, duration time.Duration) {
	attemptsTotal.WithLabelValues(string(transport), string(status)).Inc()
	attemptDuration.WithLabelValues(string(transport)).Observe(duration.Seconds())
}
