package ingestion

import "errors"

var (
	// ErrMissingFields is returned when a line has fewer columns than a record.
	ErrMissingFields = errors.New("missing fields")

	// ErrInvalidAmount is returned when the amount column is not a number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrEmptyInput is returned when a header is requested from empty input.
	ErrEmptyInput = errors.New("empty input")

	// ErrSinkRequired is returned when Load is called without a sink.
	ErrSinkRequired = errors.New("at least one sink required")

	// ErrInvalidLimit is returned for a negative row limit.
	ErrInvalidLimit = errors.New("limit must not be negative")
)
