package currency

import (
	"fmt"
	"math"
	"time"
)

// Snapshot is one consistent set of rates against BaseCurrency. A rate r for
// code C means one unit of BaseCurrency buys r units of C.
type Snapshot struct {
	BaseCurrency  string
	Rates         map[string]float64
	FetchedAt     time.Time
	LastUpdatedAt time.Time
	IsFallback    bool
}

// NewSnapshot validates rates and builds a snapshot. The base currency is
// always materialised with a rate of 1.
func NewSnapshot(base string, rates map[string]float64, fetchedAt, lastUpdatedAt time.Time, isFallback bool) (*Snapshot, error) {
	if rates == nil {
		return nil, fmt.Errorf("rates are missing: %w", ErrInvalidRate)
	}

	copied := make(map[string]float64, len(rates)+1)
	for code, rate := range rates {
		if !IsValidRate(rate) {
			return nil, fmt.Errorf("rate for %s is %v: %w", code, rate, ErrInvalidRate)
		}
		copied[code] = rate
	}
	copied[base] = 1.0

	return &Snapshot{
		BaseCurrency:  base,
		Rates:         copied,
		FetchedAt:     fetchedAt,
		LastUpdatedAt: lastUpdatedAt,
		IsFallback:    isFallback,
	}, nil
}

// IsValidRate reports whether rate is strictly positive and finite.
func IsValidRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

// Rate returns the base-relative rate for code. The base currency always
// resolves to 1 even when it is not listed.
func (s *Snapshot) Rate(code string) (float64, bool) {
	if code == s.BaseCurrency {
		return 1.0, true
	}
	rate, ok := s.Rates[code]
	return rate, ok
}

// Clone returns a deep copy so callers can never mutate cached rates.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	rates := make(map[string]float64, len(s.Rates))
	for code, rate := range s.Rates {
		rates[code] = rate
	}
	clone := *s
	clone.Rates = rates
	return &clone
}

// Rebase re-expresses every rate relative to base.
func (s *Snapshot) Rebase(base string) (*Snapshot, error) {
	pivot, ok := s.Rate(base)
	if !ok {
		return nil, NewRateNotFoundError(base)
	}

	rates := make(map[string]float64, len(s.Rates))
	for code, rate := range s.Rates {
		rates[code] = rate / pivot
	}
	rates[base] = 1.0

	return &Snapshot{
		BaseCurrency:  base,
		Rates:         rates,
		FetchedAt:     s.FetchedAt,
		LastUpdatedAt: s.LastUpdatedAt,
		IsFallback:    s.IsFallback,
	}, nil
}
