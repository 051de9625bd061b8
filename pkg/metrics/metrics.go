package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordComparison records a finished comparison. pairs and jaccard are
// ignored when err is non-nil.
func (r *Registry) RecordComparison(duration time.Duration, pairs int, jaccard float64, err error) {
	if err != nil {
		r.ComparisonsTotal.WithLabelValues(StatusError).Inc()
		return
	}
	r.ComparisonsTotal.WithLabelValues(StatusSuccess).Inc()
	r.ComparisonDuration.Observe(duration.Seconds())
	r.SemanticPairs.Observe(float64(pairs))
	r.JaccardIndex.Observe(jaccard)
}

// RecordUnknownTerm counts a term skipped on the given side.
func (r *Registry) RecordUnknownTerm(side string) {
	r.UnknownTermsTotal.WithLabelValues(side).Inc()
}

// RecordTraversal records the size of one breadth-first traversal.
func (r *Registry) RecordTraversal(visited int) {
	r.BFSNodesVisited.Observe(float64(visited))
}

// RecordOntologyLoad records the shape of a freshly loaded ontology.
func (r *Registry) RecordOntologyLoad(terms, relations int, duration time.Duration) {
	r.OntologyTerms.Set(float64(terms))
	r.OntologyRelations.Set(float64(relations))
	r.OntologyLoadDuration.Observe(duration.Seconds())
}

// RecordExternalRequest counts one HTTP request to a remote service.
func (r *Registry) RecordExternalRequest(service, status string) {
	r.ExternalRequestsTotal.WithLabelValues(service, status).Inc()
}

// RecordExternalJob records the duration of a completed remote job.
func (r *Registry) RecordExternalJob(service string, duration time.Duration) {
	r.ExternalJobDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// UpdateSystemMetrics refreshes the process gauges.
func (r *Registry) UpdateSystemMetrics(start time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(start).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
