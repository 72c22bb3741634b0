package livestatus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pyngctl_livestatus_commands_total",
			Help: "Total number of external commands by command and result",
		},
		[]string{"command", "result"}, // confirmed, unconfirmed, failed or test_mode
	)

	confirmPollsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pyngctl_livestatus_confirm_polls_total",
			Help: "Total number of confirmation queries",
		},
	)

	queryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pyngctl_livestatus_query_duration_seconds",
			Help:    "Duration of livestatus queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
