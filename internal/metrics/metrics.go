package metrics

import (
	"net/http"

	"github.com/mikey/inbox-labeler/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inbox_labeler"

// Recorder is a Prometheus implementation of core.Metrics with its own registry
type Recorder struct {
	registry        *prometheus.Registry
	classifications *prometheus.CounterVec
	entertainment   *prometheus.CounterVec
	drafts          *prometheus.CounterVec
}

// NewRecorder creates a recorder and registers its collectors
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Messages classified, by deciding tier.",
		}, []string{"tier"}),
		entertainment: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entertainment_batches_total",
			Help:      "Entertainment classifier model calls, by outcome.",
		}, []string{"outcome"}),
		drafts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_total",
			Help:      "Reply draft attempts, by outcome.",
		}, []string{"outcome"}),
	}

	r.registry.MustRegister(
		r.classifications,
		r.entertainment,
		r.drafts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ClassificationRecorded counts one classified message
func (r *Recorder) ClassificationRecorded(tier core.Tier) {
	r.classifications.WithLabelValues(string(tier)).Inc()
}

// EntertainmentBatchRecorded counts one classifier call
func (r *Recorder) EntertainmentBatchRecorded(outcome string) {
	r.entertainment.WithLabelValues(outcome).Inc()
}

// DraftRecorded counts one draft attempt
func (r *Recorder) DraftRecorded(outcome string) {
	r.drafts.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
