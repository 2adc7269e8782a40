package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	MessagesIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_ingested_total",
			Help: "Total chat messages stamped, anchored and indexed",
		},
	)

	SearchQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_search_queries_total",
			Help: "Total search queries",
		},
	)

	// Ledger metrics
	LedgerSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_ledger_submissions_total",
			Help: "Total ledger submissions",
		},
		[]string{"driver", "outcome"}, // outcome: "success" or "error"
	)

	LedgerLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_ledger_latency_seconds",
			Help:    "Ledger submission latency",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"driver"},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)

	BlockedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_blocked_requests_total",
			Help: "Total blocked requests",
		},
		[]string{"reason"},
	)

	// Infrastructure metrics
	IndexStoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_index_store_latency_seconds",
			Help:    "Index store operation latency",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"driver", "op"},
	)
)
