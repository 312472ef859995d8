package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signatures  *prometheus.CounterVec
	providers   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	rarity      prometheus.Histogram
	latency     *prometheus.HistogramVec
}

// New registers the recorder's collectors with reg (prometheus.DefaultRegisterer when nil).
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		signatures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hashclock_signatures_total",
				Help: "Signatures computed, by request source and strategy",
			},
			[]string{"source", "strategy"},
		),
		providers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hashclock_provider_requests_total",
				Help: "Ephemeris provider attempts by outcome",
			},
			[]string{"provider", "status"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hashclock_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		rarity: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hashclock_signature_rarity",
				Help:    "Distribution of the 1-in-N rarity score",
				Buckets: prometheus.ExponentialBuckets(100, 4, 10),
			},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hashclock_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordSignature(source, strategy string) {
	r.signatures.WithLabelValues(source, strategy).Inc()
}

func (r *Recorder) RecordProvider(provider, status string) {
	r.providers.WithLabelValues(provider, status).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordRarity(rarity int64) {
	r.rarity.Observe(float64(rarity))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
