package validator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pyngctl_validation_duration_seconds",
			Help:    "Duration of argument validation in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	issuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pyngctl_validation_issues_total",
			Help: "Total number of validation issues by code",
		},
		[]string{"code"},
	)

	outcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pyngctl_validation_outcomes_total",
			Help: "Total number of validations by result",
		},
		[]string{"result"}, // valid, invalid, rules_failed or rules_partial
	)
)
