package parser

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input path does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input cannot be read in the requested format.
var ErrInvalidFormat = errors.New("invalid input format")

// ErrUnknownFormat indicates a format name that has no reader.
var ErrUnknownFormat = errors.New("unknown input format")

// ReadError represents an error while reading one sheet.
type ReadError struct {
	Sheet string
	Err   error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error in sheet %q: %v", e.Sheet, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NewReadError creates a new ReadError.
func NewReadError(sheet string, err error) *ReadError {
	return &ReadError{
		Sheet: sheet,
		Err:   err,
	}
}
