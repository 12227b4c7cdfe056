package currency

import (
	"errors"
	"fmt"
)

var (
	// ErrRateNotFound is matched by every RateNotFoundError.
	ErrRateNotFound = errors.New("exchange rate not found")

	// ErrInvalidRate reports a rate that is zero, negative or not finite.
	ErrInvalidRate = errors.New("invalid exchange rate")
)

// RateNotFoundError is returned when a currency code has no entry in the
// active snapshot.
type RateNotFoundError struct {
	Code string
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("Exchange rate not found for %s", e.Code)
}

func (e *RateNotFoundError) Is(target error) bool {
	return target == ErrRateNotFound
}

// NewRateNotFoundError creates a RateNotFoundError for code
func NewRateNotFoundError(code string) error {
	return &RateNotFoundError{Code: code}
}
