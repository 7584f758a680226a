package rebase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ontocraft_rebase_runs_total",
		Help: "Draft rebase runs, by outcome.",
	}, []string{"outcome"})

	conflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ontocraft_rebase_conflicts_total",
		Help: "Draft changes flagged as conflicts during rebase.",
	})
)
