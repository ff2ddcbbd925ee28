package sources

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// filterOutcomesTotal counts range-filter decisions. The kept_unparseable
// label tracks how many records survive only because their date never
// parsed, so the keep-verbatim policy stays observable.
var filterOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "reviewscout",
	Name:      "filter_outcomes_total",
	Help:      "Date-range filter decisions by outcome",
}, []string{"outcome"})
