package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed or empty input and inconsistent id ranges.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration marks a bad configuration value such as a seed that
	// is not a 64-bit integer.
	ErrConfiguration = errors.New("configuration error")
)

// InvalidInputError describes why an operation rejected its input.
//
// errors.Is(err, ErrInvalidInput) reports true for every InvalidInputError.
type InvalidInputError struct {
	Op     string
	Reason string
	cause  error
}

// NewInvalidInput returns an *InvalidInputError for op.
func NewInvalidInput(op, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// WrapInvalidInput returns an *InvalidInputError that keeps cause reachable
// through errors.Unwrap.
func WrapInvalidInput(op string, cause error) *InvalidInputError {
	return &InvalidInputError{Op: op, Reason: cause.Error(), cause: cause}
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: invalid input: %s", e.Op, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return e.cause }

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// ConfigurationError describes a rejected configuration value.
//
// errors.Is(err, ErrConfiguration) reports true for every ConfigurationError.
type ConfigurationError struct {
	Field string
	Value string
	cause error
}

// NewConfigurationError returns a *ConfigurationError for field.
func NewConfigurationError(field, value string, cause error) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, cause: cause}
}

func (e *ConfigurationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("configuration error: %s=%q: %v", e.Field, e.Value, e.cause)
	}
	return fmt.Sprintf("configuration error: %s=%q", e.Field, e.Value)
}

func (e *ConfigurationError) Unwrap() error { return e.cause }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
