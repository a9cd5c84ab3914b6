package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// PostgresLedger stores appointments in the relational database.
type PostgresLedger struct {
	db pgxExecutor
}

var _ Ledger = (*PostgresLedger)(nil)

// NewPostgresLedger initializes a ledger backed by pgxpool.
func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresLedger{db: pool}
}

func newPostgresLedgerWithExec(exec pgxExecutor) *PostgresLedger {
	if exec == nil {
		panic("appointments: exec required")
	}
	return &PostgresLedger{db: exec}
}

// Append inserts one row; the single statement is atomic.
func (l *PostgresLedger) Append(ctx context.Context, rec *Record) error {
	if rec == nil {
		return ErrNilRecord
	}
	query := `
		INSERT INTO appointments (id, user_id, name, national_id, scheduled_for, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	ct, err := l.db.Exec(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Name,
		rec.NationalID,
		calendarDate(rec.ScheduledFor),
		string(rec.Status),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("appointments: insert: %w", err)
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("appointments: insert affected %d rows", ct.RowsAffected())
	}
	return nil
}

// Ping reports whether the database is reachable.
func (l *PostgresLedger) Ping(ctx context.Context) error {
	return l.db.Ping(ctx)
}

// calendarDate maps t to midnight UTC of its own wall-clock day. The column
// is a DATE, so the zone t was created in must not shift the day.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// List returns every appointment ordered by insertion. ScheduledFor comes
// back as midnight UTC of the stored day.
func (l *PostgresLedger) List(ctx context.Context) ([]Record, error) {
	query := `
		SELECT id, user_id, name, national_id, scheduled_for, status, created_at
		FROM appointments
		ORDER BY seq ASC
	`
	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("appointments: select: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec          Record
			status       string
			scheduledFor time.Time
			createdAt    time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.NationalID, &scheduledFor, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		rec.ScheduledFor = scheduledFor
		rec.Status = Status(status)
		rec.CreatedAt = createdAt
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows: %w", err)
	}
	return records, nil
}
