// Package appointments models booking requests and the append-only ledger
// that records them.
package appointments

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
)

var (
	// ErrNilRecord is returned when a ledger is asked to store nothing.
	ErrNilRecord = errors.New("appointments: record cannot be nil")
	// ErrPersistence marks any failure to append a record to the ledger.
	ErrPersistence = errors.New("appointments: persistence fault")
)

// Record is a booking request captured by the conversation.
type Record struct {
	ID           string    `json:"id" dynamodbav:"id"`
	UserID       string    `json:"user_id" dynamodbav:"userId"`
	Name         string    `json:"name" dynamodbav:"name"`
	NationalID   string    `json:"national_id" dynamodbav:"nationalId"`
	ScheduledFor time.Time `json:"scheduled_for" dynamodbav:"scheduledFor"`
	Status       Status    `json:"status" dynamodbav:"status"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"createdAt"`
}

// NewRecord builds a pending record for the selected date.
func NewRecord(userID, name, nationalID string, scheduledFor, now time.Time) *Record {
	return &Record{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         name,
		NationalID:   nationalID,
		ScheduledFor: scheduledFor,
		Status:       StatusPending,
		CreatedAt:    now.UTC(),
	}
}
