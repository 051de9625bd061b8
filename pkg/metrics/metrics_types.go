// Package metrics exposes Prometheus instrumentation for comparison runs,
// ontology traversal and calls to the remote annotation services.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Label values shared by the recording helpers.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	SideA = "a"
	SideB = "b"

	ServiceInterPro = "interpro"
	ServiceDeepFRI  = "deepfri"
)

// Registry holds all metrics for the application
type Registry struct {
	// Comparison Metrics
	ComparisonsTotal   *prometheus.CounterVec
	ComparisonDuration prometheus.Histogram
	SemanticPairs      prometheus.Histogram
	JaccardIndex       prometheus.Histogram
	UnknownTermsTotal  *prometheus.CounterVec

	// Ontology Metrics
	BFSNodesVisited      prometheus.Histogram
	OntologyTerms        prometheus.Gauge
	OntologyRelations    prometheus.Gauge
	OntologyLoadDuration prometheus.Histogram

	// External Service Metrics
	ExternalRequestsTotal *prometheus.CounterVec
	ExternalJobDuration   *prometheus.HistogramVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initCompareMetrics()
	r.initOntologyMetrics()
	r.initExternalMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
