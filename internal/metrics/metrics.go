package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	submissionsTotal *prometheus.CounterVec
	decisionsTotal   *prometheus.CounterVec
	duration         *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		submissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "approval",
			Name:      "submissions_total",
			Help:      "Total number of submit-for-review operations.",
		}, []string{"record_type", "result"}),
		decisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "approval",
			Name:      "decisions_total",
			Help:      "Total number of approve/reject operations.",
		}, []string{"record_type", "decision", "result"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "approval",
			Name:      "duration_seconds",
			Help:      "Latency of approval engine operations, including row-lock waits.",
			Buckets: []float64{
				0.001, 0.005, 0.01,
				0.025, 0.05, 0.1,
				0.25, 0.5, 1, 2.5, 5,
			},
		}, []string{"operation", "result"}),
	}
})

func get() *metrics { return metricsSingleton() }

// result is "ok" or the error code, e.g. NO_PENDING_APPROVAL.
func ObserveSubmission(recordType, result string, started time.Time) {
	m := get()
	m.submissionsTotal.WithLabelValues(recordType, result).Inc()
	m.duration.WithLabelValues("submit", result).Observe(time.Since(started).Seconds())
}

func ObserveDecision(recordType, decision, result string, started time.Time) {
	m := get()
	m.decisionsTotal.WithLabelValues(recordType, decision, result).Inc()
	m.duration.WithLabelValues("decide", result).Observe(time.Since(started).Seconds())
}
