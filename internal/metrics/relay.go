// Package metrics provides Prometheus metrics for relay supervision.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	workersRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camrelay",
		Subsystem: "relay",
		Name:      "workers_running",
		Help:      "Number of live relay workers",
	})

	restartsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camrelay",
		Subsystem: "relay",
		Name:      "restarts_total",
		Help:      "Worker relaunches per feed",
	}, []string{"feed_id"})

	validationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camrelay",
		Subsystem: "relay",
		Name:      "validation_failures_total",
		Help:      "Source validation failures per feed",
	}, []string{"feed_id"})

	feedsAbandoned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camrelay",
		Subsystem: "relay",
		Name:      "feeds_abandoned_total",
		Help:      "Feeds abandoned for the remainder of the run",
	})
)

// SetWorkersRunning sets the live worker count.
func SetWorkersRunning(n int) {
	workersRunning.Set(float64(n))
}

// WorkerRestarted records a successful relaunch for a feed.
func WorkerRestarted(feedID string) {
	restartsTotal.WithLabelValues(feedID).Inc()
}

// ValidationFailed records a failed source probe for a feed.
func ValidationFailed(feedID string) {
	validationFailures.WithLabelValues(feedID).Inc()
}

// FeedAbandoned records a feed dropped for the rest of the run.
func FeedAbandoned() {
	feedsAbandoned.Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
