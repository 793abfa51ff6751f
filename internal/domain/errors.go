package domain

import "errors"

var (
	ErrEventNotFound = errors.New("event not found")
)

var (
	ErrEventCancelled    = errors.New("event is cancelled")
	ErrEventFull         = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("already registered")
)

var (
	ErrValidation = errors.New("validation error")
)

const (
	MsgRequiredFields    = "required fields missing"
	MsgInvalidDate       = "invalid date"
	MsgDateNotFuture     = "date must be future"
	MsgCapacityTooLow    = "capacity must be at least 1"
	MsgCapacityTooHigh   = "capacity is too large"
	MsgNameEmailRequired = "name and email are required"
)

// ValidationError carries a client-facing message and matches ErrValidation.
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
