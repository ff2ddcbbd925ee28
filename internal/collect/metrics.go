package collect

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	extractPassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewscout",
			Name:      "extract_passes_total",
			Help:      "Total extraction passes by outcome",
		},
		[]string{"status"},
	)

	paginationActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewscout",
			Name:      "pagination_actions_total",
			Help:      "Total pagination advances by action kind",
		},
		[]string{"action"},
	)

	collectRounds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reviewscout",
			Name:      "collect_rounds",
			Help:      "Rounds executed per collection loop",
			Buckets:   prometheus.LinearBuckets(1, 5, 9), // 1 to 41
		},
	)

	recordsCollectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reviewscout",
			Name:      "records_collected_total",
			Help:      "Total unique records merged across all collection loops",
		},
	)
)
