package model

import "errors"

var (
	// ErrConfiguration is returned before any network activity when no Hyperion host is set.
	ErrConfiguration = errors.New("No Hyperion IP configured")
	ErrTimeout       = errors.New("timeout")
	ErrConnection    = errors.New("connection error")
	ErrProtocol      = errors.New("protocol error")
	ErrValidation    = errors.New("validation error")
)

// ValidationError carries a caller-facing message for a rejected parameter.
type ValidationError struct {
	Msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
