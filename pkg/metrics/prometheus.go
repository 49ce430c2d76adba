package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	Reconciliations      prometheus.Counter
	GateConfirmations    prometheus.Counter
	ProviderCallDuration prometheus.Histogram
	ErrorsCount          *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Reconciliations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliations_total",
			Help:      "The total number of booking records reconciled against the tracking feed",
		}),
		GateConfirmations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_confirmations_total",
			Help:      "The total number of gate/OCR arrival confirmations applied",
		}),
		ProviderCallDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Round-trip time of ULIP trail fetches",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
