package conversation

import "strings"

// Confirmation is the user's answer to the details review.
type Confirmation int

const (
	ConfirmationNo Confirmation = iota
	ConfirmationYes
)

func (c Confirmation) String() string {
	if c == ConfirmationYes {
		return "yes"
	}
	return "no"
}

// ConfirmationTokens are the literal words accepted as yes and no.
type ConfirmationTokens struct {
	Yes string
	No  string
}

// DefaultConfirmationTokens returns the Portuguese "sim"/"não" pair.
func DefaultConfirmationTokens() ConfirmationTokens {
	return ConfirmationTokens{Yes: "sim", No: "não"}
}

// ParseConfirmation maps text to a Confirmation, ignoring case and
// surrounding whitespace. ok is false for any other token; callers must
// re-prompt rather than assume a default.
func ParseConfirmation(text string, tokens ConfirmationTokens) (c Confirmation, ok bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	switch normalized {
	case "":
		return ConfirmationNo, false
	case strings.ToLower(tokens.Yes):
		return ConfirmationYes, true
	case strings.ToLower(tokens.No):
		return ConfirmationNo, true
	}
	return ConfirmationNo, false
}
