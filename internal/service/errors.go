package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the service layer. Handlers map these onto HTTP
// status codes; internal computation failures in secondary effects are
// logged at the trigger site and never surface through these.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrAccessDenied   = errors.New("access denied")
	ErrAlreadyClaimed = errors.New("achievement already claimed")
)

// validationf wraps ErrValidation with a formatted message.
func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
