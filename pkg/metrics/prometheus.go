package metrics

import (
	"StratScan/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	messagesSent *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	fetches      *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	limiter      *prometheus.GaugeVec
	signals      *prometheus.GaugeVec
}

// New creates a recorder registered with the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors with reg. Tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		messagesSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratscan_messages_sent_total",
				Help: "Total number of scan results delivered to a sink",
			},
			[]string{"backend", "key"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stratscan_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		fetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratscan_candle_fetches_total",
				Help: "Upstream candle fetches by timeframe and outcome",
			},
			[]string{"timeframe", "outcome"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratscan_state_cache_lookups_total",
				Help: "Timeframe state cache lookups by result",
			},
			[]string{"timeframe", "result"},
		),
		limiter: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stratscan_limiter",
				Help: "Fetch limiter load (running, queued, max)",
			},
			[]string{"state"},
		),
		signals: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stratscan_signals",
				Help: "Signals in the last built response",
			},
			[]string{"bucket"},
		),
	}
}

// RecordMessageSent records a message sent to a backend.
func (r *Recorder) RecordMessageSent(backend, key string) {
	r.messagesSent.WithLabelValues(backend, key).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordFetch(tf models.Timeframe, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	r.fetches.WithLabelValues(string(tf), outcome).Inc()
}

func (r *Recorder) RecordCacheLookup(tf models.Timeframe, result string) {
	r.cacheLookups.WithLabelValues(string(tf), result).Inc()
}

func (r *Recorder) RecordLimiter(s models.LimiterStats) {
	r.limiter.WithLabelValues("running").Set(float64(s.CurrentlyRunning))
	r.limiter.WithLabelValues("queued").Set(float64(s.QueueLength))
	r.limiter.WithLabelValues("max").Set(float64(s.MaxConcurrent))
}

func (r *Recorder) RecordSignals(signals, nearMisses int) {
	r.signals.WithLabelValues("signals").Set(float64(signals))
	r.signals.WithLabelValues("near_misses").Set(float64(nearMisses))
}
