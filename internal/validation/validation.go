// Package validation holds the format checks that gate the booking conversation.
package validation

import "regexp"

var (
	// Optional '+', 1-3 digit country code, then 8-14 subscriber digits.
	phonePattern      = regexp.MustCompile(`^\+?\d{1,3}\d{8,14}$`)
	nationalIDPattern = regexp.MustCompile(`^\d{11}$`)
)

// ValidatePhone reports whether s is an E.164-like phone number without separators.
func ValidatePhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidateNationalID reports whether s is exactly 11 decimal digits.
// No check-digit arithmetic is performed.
func ValidateNationalID(s string) bool {
	return nationalIDPattern.MatchString(s)
}
