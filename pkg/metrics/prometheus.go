package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the Prometheus-backed implementation of the domain Metrics
// port. All series live under the tickerpulse_ namespace.
type Recorder struct {
	sent    *prometheus.CounterVec
	errors  *prometheus.CounterVec
	price   *prometheus.GaugeVec
	latency *prometheus.HistogramVec
}

// New registers the recorder's series on the default registry.
func New() *Recorder {
	return &Recorder{
		sent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tickerpulse_messages_sent_total",
			Help: "Messages delivered to a backend",
		}, []string{"backend", "symbol"}),
		errors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tickerpulse_errors_total",
			Help: "Errors by kind",
		}, []string{"type"}),
		price: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tickerpulse_last_price",
			Help: "Last observed price per symbol",
		}, []string{"symbol"}),
		latency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tickerpulse_operation_duration_seconds",
			Help:    "Operation latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (r *Recorder) RecordMessageSent(backend, symbol string) {
	r.sent.WithLabelValues(backend, symbol).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.price.WithLabelValues(symbol).Set(price)
}

func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
