package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking conversation.
type BookingMetrics struct {
	conversationsTotal *prometheus.CounterVec
	rejectionsTotal    *prometheus.CounterVec
	appendTotal        *prometheus.CounterVec
	appendLatency      prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		conversationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consultabot",
			Subsystem: "conversation",
			Name:      "outcomes_total",
			Help:      "Conversation passes by terminal outcome",
		}, []string{"outcome"}),
		rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consultabot",
			Subsystem: "conversation",
			Name:      "rejections_total",
			Help:      "User answers rejected and re-prompted",
		}, []string{"kind"}),
		appendTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consultabot",
			Subsystem: "ledger",
			Name:      "append_total",
			Help:      "Appointment ledger appends by status",
		}, []string{"status"}),
		appendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "consultabot",
			Subsystem: "ledger",
			Name:      "append_latency_seconds",
			Help:      "Latency of appointment ledger appends",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.conversationsTotal, m.rejectionsTotal, m.appendTotal, m.appendLatency)
	return m
}

func (m *BookingMetrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.conversationsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveRejection(kind string) {
	if m == nil {
		return
	}
	m.rejectionsTotal.WithLabelValues(kind).Inc()
}

func (m *BookingMetrics) ObserveAppend(ok bool, seconds float64) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.appendTotal.WithLabelValues(status).Inc()
	m.appendLatency.Observe(seconds)
}
