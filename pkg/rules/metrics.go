package rules

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ruleResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pyngctl_rule_results_total",
			Help: "Total number of evaluated rules by result",
		},
		[]string{"status"}, // passed, failed or skipped
	)

	ruleEvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pyngctl_rule_evaluation_duration_seconds",
			Help:    "Duration of rule evaluation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
	)
)
