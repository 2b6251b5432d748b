package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// recomputeTotal counts recomputation passes by result.
	recomputeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindred_recompute_total",
		Help: "Total relationship recomputations by result",
	}, []string{"result"})

	// recomputeDuration tracks how long a full resolver + labeler pass takes.
	recomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kindred_recompute_duration_seconds",
		Help:    "Relationship recomputation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	})

	// selectionCacheTotal counts selection cache lookups by outcome.
	selectionCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindred_selection_cache_total",
		Help: "Selection cache lookups by outcome",
	}, []string{"outcome"})

	// graphPeople and graphEdges describe the currently loaded tree.
	graphPeople = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kindred_graph_people",
		Help: "Number of people in the loaded family tree",
	})
	graphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kindred_graph_edges",
		Help: "Number of kinship edges in the loaded family tree",
	})
)
