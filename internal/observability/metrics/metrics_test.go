package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveOutcome("booked")
	m.ObserveOutcome("booked")
	m.ObserveRejection("national_id_format")
	m.ObserveAppend(true, 0.01)
	m.ObserveAppend(false, 0.02)

	if got := counterValue(t, m.conversationsTotal.WithLabelValues("booked")); got != 2 {
		t.Fatalf("booked outcomes = %v, want 2", got)
	}
	if got := counterValue(t, m.rejectionsTotal.WithLabelValues("national_id_format")); got != 1 {
		t.Fatalf("rejections = %v, want 1", got)
	}
	if got := counterValue(t, m.appendTotal.WithLabelValues("error")); got != 1 {
		t.Fatalf("append errors = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("expected 4 metric families, got %d", len(families))
	}
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveOutcome("booked")
	m.ObserveRejection("date_format")
	m.ObserveAppend(true, 0.1)
}
