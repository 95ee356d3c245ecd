package domain

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrImageRejected       = errors.New("image rejected")
	ErrProviderFailure     = errors.New("provider failure")
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// ValidationError names the offending field of a GenerationRequest.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

func invalidField(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
