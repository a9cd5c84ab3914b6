// Package session keeps the profile fields collected from a user while a
// booking conversation is in progress, keyed by the user's phone number.
package session

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrMissingUserID is returned when a session is requested without an identifier.
	ErrMissingUserID = errors.New("session: user id is required")
	// ErrUnknownField is returned when SetField receives a field the session does not track.
	ErrUnknownField = errors.New("session: unknown field")
)

// Field names a collected profile attribute.
type Field string

const (
	FieldName       Field = "name"
	FieldNationalID Field = "national_id"
	FieldEmail      Field = "email"
)

func (f Field) valid() bool {
	switch f {
	case FieldName, FieldNationalID, FieldEmail:
		return true
	}
	return false
}

// Session is the per-user state of a conversation. Empty strings mean "not
// collected yet".
type Session struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name,omitempty"`
	NationalID string `json:"national_id,omitempty"`
	Email      string `json:"email,omitempty"`
}

// HasName reports whether the full name was collected.
func (s *Session) HasName() bool { return s != nil && s.Name != "" }

// HasNationalID reports whether the national ID was collected.
func (s *Session) HasNationalID() bool { return s != nil && s.NationalID != "" }

func (s *Session) set(field Field, value string) {
	switch field {
	case FieldName:
		s.Name = value
	case FieldNationalID:
		s.NationalID = value
	case FieldEmail:
		s.Email = value
	}
}

// Registry maps user identifiers to sessions.
type Registry interface {
	// GetOrCreate returns the session for userID, creating an empty one on first contact.
	GetOrCreate(ctx context.Context, userID string) (*Session, error)
	// SetField records a collected value for userID.
	SetField(ctx context.Context, userID string, field Field, value string) error
}

func checkArgs(userID string, field Field) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUserID
	}
	if !field.valid() {
		return ErrUnknownField
	}
	return nil
}
