package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initExternalMetrics() {
	r.ExternalRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "godual_external_requests_total",
			Help: "Total number of HTTP requests to remote annotation services",
		},
		[]string{"service", "status"},
	)

	r.ExternalJobDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "godual_external_job_duration_seconds",
			Help:    "Wall time from job submission to result retrieval",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"service"},
	)
}
