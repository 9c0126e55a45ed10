package unflatten

import (
	"errors"
	"fmt"
)

// ErrMalformedPath indicates a column name that is not a valid field path.
var ErrMalformedPath = errors.New("malformed column path")

// ErrMainSheetNotFound indicates the configured main sheet is not in the workbook.
var ErrMainSheetNotFound = errors.New("main sheet not found")

// ErrInvalidConfig indicates an unusable configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// MalformedPathError represents a column name that cannot be parsed.
type MalformedPathError struct {
	Sheet  string
	Column string
	Reason string
}

func (e *MalformedPathError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("malformed column path %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("malformed column path %q in sheet %q: %s", e.Column, e.Sheet, e.Reason)
}

func (e *MalformedPathError) Unwrap() error {
	return ErrMalformedPath
}

// ConfigError represents a configuration field that failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{
		Field:  field,
		Reason: reason,
	}
}
