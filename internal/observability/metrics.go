package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScansStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lookout",
		Name:      "scans_started_total",
		Help:      "Total number of scan runs started",
	}, []string{"source"})

	ScansFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lookout",
		Name:      "scans_finished_total",
		Help:      "Total number of scan runs finished, by terminal state",
	}, []string{"source", "state"})

	FramesSampled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lookout",
		Name:      "frames_sampled_total",
		Help:      "Total number of frames captured and submitted for matching",
	}, []string{"source"})

	MatchCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lookout",
		Name:      "match_calls_total",
		Help:      "Total match service calls, by outcome",
	}, []string{"outcome"}) // found, not_found, error

	MatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lookout",
		Name:      "match_duration_seconds",
		Help:      "Duration of match service calls",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	ActiveScans = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lookout",
		Name:      "active_scans",
		Help:      "Number of currently running scans",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lookout",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lookout",
		Name:      "auth_failures_total",
		Help:      "Rejected API requests, by reason",
	}, []string{"reason"}) // missing, invalid

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lookout",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
