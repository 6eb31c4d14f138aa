package dataprocessing

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatchingRecords is returned when no row carries the target symbol
	ErrNoMatchingRecords = errors.New("no trade records match the target symbol")

	// ErrNoValidDates is returned when no trade has a usable timestamp
	ErrNoValidDates = errors.New("no valid trade timestamps found")
)

// InvalidDateError reports date text that is not a calendar date.
// It aborts the whole analysis.
type InvalidDateError struct {
	Text string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %q", e.Text)
}

// IsAnalysisError reports whether err is one of the engine's input errors
func IsAnalysisError(err error) bool {
	var dateErr *InvalidDateError
	return errors.Is(err, ErrNoMatchingRecords) ||
		errors.Is(err, ErrNoValidDates) ||
		errors.As(err, &dateErr)
}
