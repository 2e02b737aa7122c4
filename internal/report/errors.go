package report

import "errors"

var (
	// ErrInputNotFound is returned when a required input file does not exist.
	ErrInputNotFound = errors.New("input file not found")

	// ErrInvalidInput is returned when an input file cannot be decoded.
	ErrInvalidInput = errors.New("invalid input file")

	// ErrWriteFailed is returned when an output file cannot be written.
	ErrWriteFailed = errors.New("failed to write output")
)
