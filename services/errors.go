package services

import "errors"

// Sentinel errors controllers translate to HTTP statuses.
var (
	ErrNotFound    = errors.New("not found")
	ErrCheckExists = errors.New("compliance check already exists for this period")
)

// ValidationError marks caller mistakes (bad period, bad percentages).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) error { return &ValidationError{Message: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
