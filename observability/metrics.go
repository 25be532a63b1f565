// Package observability exposes transaction lifecycle metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TxMetrics counts submission attempts by flow and outcome and tracks
// how many actions are currently past the point of no return.
// All methods are nil-safe so wiring metrics stays optional.
type TxMetrics struct {
	submissions *prometheus.CounterVec
	inFlight    prometheus.Gauge
}

func NewTxMetrics(reg prometheus.Registerer) *TxMetrics {
	factory := promauto.With(reg)
	return &TxMetrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "estate_bridge_submissions_total",
			Help: "Submission attempts by flow and outcome.",
		}, []string{"flow", "outcome"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "estate_bridge_submissions_in_flight",
			Help: "Actions currently submitting or awaiting confirmation.",
		}),
	}
}

func (m *TxMetrics) SubmissionStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *TxMetrics) SubmissionFinished(flow, outcome string) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.submissions.WithLabelValues(flow, outcome).Inc()
}
