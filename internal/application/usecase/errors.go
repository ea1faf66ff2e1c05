package usecase

import "errors"

var (
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAggregatorUnavailable wraps account-aggregator failures that have
	// no demo fallback.
	ErrAggregatorUnavailable = errors.New("account aggregator unavailable")
)
