// Package audit keeps an immutable trail of how booking conversations ended.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType represents the kind of conversation outcome.
type EventType string

const (
	// EventBooked is logged when a confirmed appointment reached the ledger.
	EventBooked EventType = "conversation.booked"
	// EventAppendFailed is logged when the ledger refused a confirmed appointment.
	EventAppendFailed EventType = "conversation.append_failed"
	// EventRestarted is logged when the user rejected the details and the flow restarted.
	EventRestarted EventType = "conversation.restarted"
)

// Event is one audit row.
type Event struct {
	ID            string
	EventType     EventType
	UserID        string
	AppointmentID string
	Detail        string
	CreatedAt     time.Time
}

// Service writes audit events.
type Service struct {
	db *sql.DB
}

// NewService creates a new audit service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// LogEvent records an audit event. A nil service is a no-op.
func (s *Service) LogEvent(ctx context.Context, event Event) error {
	if s == nil || s.db == nil {
		return nil
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO booking_audit_events (
			id, event_type, user_id, appointment_id, detail, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		string(event.EventType),
		event.UserID,
		nullString(event.AppointmentID),
		nullString(event.Detail),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: failed to log event: %w", err)
	}
	return nil
}

// Ping reports whether the audit database is reachable. A nil service is healthy.
func (s *Service) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

// CountByType returns how many events of the given type were logged for a user.
func (s *Service) CountByType(ctx context.Context, userID string, eventType EventType) (int, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM booking_audit_events
		WHERE user_id = $1 AND event_type = $2
	`, userID, string(eventType)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("audit: count events: %w", err)
	}
	return count, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
