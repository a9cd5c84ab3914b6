package conversation

import "fmt"

// RejectionKind tags why an answer was not accepted.
type RejectionKind string

const (
	RejectPhoneFormat        RejectionKind = "phone_format"
	RejectEmptyName          RejectionKind = "empty_name"
	RejectNationalIDFormat   RejectionKind = "national_id_format"
	RejectDateFormat         RejectionKind = "date_format"
	RejectPastDate           RejectionKind = "past_date"
	RejectChoice             RejectionKind = "choice"
	RejectConfirmationFormat RejectionKind = "confirmation_format"
)

// Rejection is a recoverable validation failure: the engine reports it to
// the user and asks again.
type Rejection struct {
	Kind  RejectionKind
	Input string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("conversation: %s rejected: %q", r.Kind, r.Input)
}

func reject(kind RejectionKind, input string) *Rejection {
	return &Rejection{Kind: kind, Input: input}
}

func (e *Engine) rejectionMessage(r *Rejection) string {
	m := e.messages
	switch r.Kind {
	case RejectPhoneFormat:
		return m.InvalidPhone
	case RejectEmptyName:
		return m.EmptyName
	case RejectNationalIDFormat:
		return m.InvalidNationalID
	case RejectDateFormat:
		return m.InvalidDate
	case RejectPastDate:
		return m.PastDate
	case RejectChoice:
		return m.InvalidChoice
	case RejectConfirmationFormat:
		return fmt.Sprintf(m.InvalidConfirmationFmt, e.tokens.Yes, e.tokens.No)
	}
	return ""
}
