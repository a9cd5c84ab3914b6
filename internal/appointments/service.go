package appointments

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/consultabot/internal/observability/metrics"
	"github.com/wolfman30/consultabot/pkg/logging"
)

var appointmentsTracer = otel.Tracer("consultabot.internal.appointments")

// Service records appointments in a ledger and reports each attempt.
type Service struct {
	ledger  Ledger
	logger  *logging.Logger
	metrics *metrics.BookingMetrics
}

// NewService constructs an appointments service. metrics may be nil.
func NewService(ledger Ledger, logger *logging.Logger, m *metrics.BookingMetrics) *Service {
	if ledger == nil {
		panic("appointments: ledger required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{ledger: ledger, logger: logger, metrics: m}
}

// Append stores rec. Any failure is returned wrapped in ErrPersistence.
func (s *Service) Append(ctx context.Context, rec *Record) error {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.append")
	defer span.End()

	if rec == nil {
		return fmt.Errorf("%w: %w", ErrPersistence, ErrNilRecord)
	}
	span.SetAttributes(
		attribute.String("consultabot.appointment_id", rec.ID),
		attribute.String("consultabot.scheduled_for", rec.ScheduledFor.Format(time.DateOnly)),
	)

	start := time.Now()
	err := s.ledger.Append(ctx, rec)
	s.metrics.ObserveAppend(err == nil, time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		s.logger.Error("appointment append failed", "user_id", rec.UserID, "appointment_id", rec.ID, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.logger.Info("appointment recorded",
		"user_id", rec.UserID,
		"appointment_id", rec.ID,
		"scheduled_for", rec.ScheduledFor.Format(time.DateOnly),
		"status", rec.Status,
	)
	return nil
}

// List returns the ledger contents in insertion order.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.ledger.List(ctx)
}
