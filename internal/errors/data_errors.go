package errors

import (
	"errors"
	"fmt"
)

// DataLoadError is returned when the raw injury input is missing, unreadable
// or lacks a required column. It is fatal: no enriched table is produced.
type DataLoadError struct {
	Source string
	Column string
	Reason string
	Cause  error
}

// Error implements the error interface
func (e *DataLoadError) Error() string {
	msg := fmt.Sprintf("data load failed for %s: %s", e.Source, e.Reason)
	if e.Column != "" {
		msg += fmt.Sprintf(" (column %q)", e.Column)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *DataLoadError) Unwrap() error {
	return e.Cause
}

// NewDataLoadError creates a data load error for source
func NewDataLoadError(source, reason string, cause error) *DataLoadError {
	return &DataLoadError{
		Source: source,
		Reason: reason,
		Cause:  cause,
	}
}

// MissingColumnError reports a required column absent from the input header
func MissingColumnError(source, column string) *DataLoadError {
	return &DataLoadError{
		Source: source,
		Column: column,
		Reason: "missing required column",
	}
}

// IsDataLoadError reports whether err wraps a DataLoadError
func IsDataLoadError(err error) bool {
	var target *DataLoadError
	return errors.As(err, &target)
}
