package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the HTTP layer, which maps them to status codes.
var (
	ErrNotFound        = errors.New("not found")
	ErrOutOfStock      = errors.New("out of stock")
	ErrNothingReserved = errors.New("no reserved units")
	ErrDuplicateName   = errors.New("name already exists")
)

// ValidationError reports malformed or out-of-range input
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
