package models

import (
	"errors"
	"fmt"
)

var (
	// ErrFormatMismatch is returned when a line does not match the expected statement pattern.
	ErrFormatMismatch = errors.New("line does not match statement format")

	// ErrCurrencyParse is returned when a matched amount token is not numeric.
	ErrCurrencyParse = errors.New("invalid currency amount")

	// ErrMissingInput is returned when an optional statement file does not exist.
	ErrMissingInput = errors.New("statement file not found")

	// ErrOutOfWindow is returned when a date falls outside the reporting window.
	ErrOutOfWindow = errors.New("date outside reporting window")

	// ErrNoInputs is returned when none of the statement inputs are available.
	ErrNoInputs = errors.New("no statement inputs available")

	// ErrInvalidConfig is returned when configuration values are missing or inconsistent.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// LineErrorCode defines error codes for line-level failures.
// Format: LDG-XXYYYY where XX is category and YYYY is specific error.
type LineErrorCode string

const (
	ErrCodeFormatMismatch LineErrorCode = "LDG-010001"
	ErrCodeCurrencyParse  LineErrorCode = "LDG-010002"
	ErrCodeInvalidDate    LineErrorCode = "LDG-010003"
	ErrCodeOutOfWindow    LineErrorCode = "LDG-020001"
	ErrCodeLineDropped    LineErrorCode = "LDG-090001"
)

// LineError ties a recoverable failure to the statement line that caused it.
type LineError struct {
	Code    LineErrorCode
	Source  string
	LineNum int
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %v", e.Source, e.LineNum, e.Code, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// NewLineError creates a LineError for the given source position.
func NewLineError(code LineErrorCode, source string, lineNum int, err error) *LineError {
	return &LineError{
		Code:    code,
		Source:  source,
		LineNum: lineNum,
		Err:     err,
	}
}
