package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pyngctl_dispatch_duration_seconds",
			Help:    "Time taken to issue and confirm all commands of an invocation",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"mode"},
	)

	targetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pyngctl_dispatch_targets_total",
			Help: "Total number of dispatched targets by mode and status",
		},
		[]string{"mode", "status"}, // success or failure
	)
)
