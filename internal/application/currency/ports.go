package currency

import (
	"context"
	"time"
)

// RemoteRates is one payload from the upstream rate source. Rates are not
// validated yet; the provider rejects the whole payload if any rate is invalid.
type RemoteRates struct {
	Base      string
	Rates     map[string]float64
	Timestamp time.Time
}

// RateSource fetches the latest rates for symbols against base.
type RateSource interface {
	FetchLatest(ctx context.Context, base string, symbols []string) (*RemoteRates, error)
	// HasCredentials reports whether an API key is configured. Without one
	// the provider never calls FetchLatest.
	HasCredentials() bool
}

// MetricsRecorder receives cache and fetch observations.
type MetricsRecorder interface {
	ObserveCacheLookup(hit bool)
	ObserveFetch(outcome string, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveCacheLookup(bool)            {}
func (noopMetrics) ObserveFetch(string, time.Duration) {}
