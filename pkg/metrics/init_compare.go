package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCompareMetrics() {
	r.ComparisonsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "godual_comparisons_total",
			Help: "Total number of annotation set comparisons",
		},
		[]string{"status"},
	)

	r.ComparisonDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "godual_comparison_duration_seconds",
			Help:    "Comparison duration in seconds, including semantic matching",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.SemanticPairs = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "godual_semantic_pairs",
			Help:    "Number of matched semantic pairs per comparison",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	r.JaccardIndex = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "godual_jaccard_index",
			Help:    "Jaccard index of exact term overlap per comparison",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	r.UnknownTermsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "godual_unknown_terms_total",
			Help: "Terms skipped during semantic matching because they are not in the ontology",
		},
		[]string{"side"},
	)
}
