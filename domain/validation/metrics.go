package validation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ontocraft",
		Subsystem: "validation",
		Name:      "runs_total",
		Help:      "Validation runs by outcome",
	}, []string{"outcome"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ontocraft",
		Subsystem: "validation",
		Name:      "run_duration_seconds",
		Help:      "Wall time of validation runs",
		Buckets:   prometheus.DefBuckets,
	})

	messagesEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ontocraft",
		Subsystem: "validation",
		Name:      "messages_total",
		Help:      "Validation messages emitted by severity",
	}, []string{"severity"})
)
