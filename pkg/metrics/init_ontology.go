package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initOntologyMetrics() {
	r.BFSNodesVisited = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "godual_bfs_nodes_visited",
			Help:    "Number of terms reached per breadth-first traversal",
			Buckets: []float64{10, 100, 1000, 10000, 50000},
		},
	)

	r.OntologyTerms = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "godual_ontology_terms",
			Help: "Number of terms in the loaded ontology",
		},
	)

	r.OntologyRelations = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "godual_ontology_relations",
			Help: "Number of undirected relations in the loaded ontology",
		},
	)

	r.OntologyLoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "godual_ontology_load_duration_seconds",
			Help:    "Time spent parsing the ontology file",
			Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
	)
}
