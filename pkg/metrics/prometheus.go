package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	alertsReceived   *prometheus.CounterVec
	providerRequests *prometheus.CounterVec
	volumeCacheHits  *prometheus.CounterVec
	notifierChunks   *prometheus.CounterVec
	resolveLatency   *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		alertsReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wingman_alerts_received_total",
				Help: "Inbound webhook alerts by outcome (processed, unauthorized, bad_request, error)",
			},
			[]string{"outcome"},
		),
		providerRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wingman_provider_requests_total",
				Help: "External market-data provider requests by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		volumeCacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wingman_volume_cache_hits_total",
				Help: "Provider volume cache hits by provider",
			},
			[]string{"provider"},
		),
		notifierChunks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wingman_notifier_chunks_total",
				Help: "Telegram message chunks by outcome (sent, failed)",
			},
			[]string{"outcome"},
		),
		resolveLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wingman_resolution_duration_seconds",
				Help:    "Duration of enrichment operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAlert records an inbound alert outcome.
func (r *Recorder) RecordAlert(outcome string) {
	r.alertsReceived.WithLabelValues(outcome).Inc()
}

// RecordProviderRequest records a provider call outcome.
func (r *Recorder) RecordProviderRequest(provider, outcome string) {
	r.providerRequests.WithLabelValues(provider, outcome).Inc()
}

// RecordVolumeCacheHit records a served-from-cache volume lookup.
func (r *Recorder) RecordVolumeCacheHit(provider string) {
	r.volumeCacheHits.WithLabelValues(provider).Inc()
}

// RecordNotifierChunk records a delivery attempt for one message chunk.
func (r *Recorder) RecordNotifierChunk(outcome string) {
	r.notifierChunks.WithLabelValues(outcome).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.resolveLatency.WithLabelValues(op).Observe(seconds)
}
