package errors

import (
	"errors"
	"fmt"
)

// Application-specific sentinel errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("resource conflict")
	ErrTimeout      = errors.New("operation timeout")
)

// ValidationError represents missing or malformed caller input. Handlers map
// it to HTTP 400.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// FetchError represents a transport-level failure or non-2xx response from an
// upstream API. Handlers map it to HTTP 500.
type FetchError struct {
	Source string
	Err    error
}

func (e FetchError) Error() string {
	return fmt.Sprintf("fetch error from %s: %v", e.Source, e.Err)
}

func (e FetchError) Unwrap() error {
	return e.Err
}

// ParseError represents an unexpected upstream payload shape. Handlers map it
// to HTTP 500.
type ParseError struct {
	Source string
	Err    error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse error for %s: %v", e.Source, e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}

// StoreError represents a persistence or query failure. Handlers map it to
// HTTP 500.
type StoreError struct {
	Operation string
	Err       error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Operation, e.Err)
}

func (e StoreError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
