package overlay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var patchFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ontocraft",
	Subsystem: "overlay",
	Name:      "patch_failures_total",
	Help:      "Stored draft patches that no longer apply to their canonical body",
})
