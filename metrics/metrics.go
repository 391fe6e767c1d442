package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecheckTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recheck_total",
			Help: "Total product rechecks by platform and resulting status",
		},
		[]string{"platform", "status"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "fetch_duration_seconds",
			Help: "Duration of product page fetches in seconds",
		},
		[]string{"platform"},
	)

	AlertsFired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_fired_total",
			Help: "Total alerts fired",
		},
	)

	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Track-by-request searches by platform and resulting status",
		},
		[]string{"platform", "status"},
	)
)
