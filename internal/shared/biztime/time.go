// Package biztime provides time helpers shared by the rate cache and its
// adapters. Everything stored or transported is UTC; the agency timezone is
// only used when timestamps are rendered for operators.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default agency timezone.
	DefaultTimezone = "UTC"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the agency timezone. Should be called once at startup.
// If tz is empty, defaults to UTC.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the agency timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize agency timezone %q: %v", tz, err))
	}
}

// Location returns the agency timezone, initializing it with the default on first use.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FromUnix converts a provider epoch timestamp in seconds to UTC.
// A non-positive timestamp yields the zero time.
func FromUnix(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// ToBizTimezone converts t to the agency timezone.
func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}

// FormatInBizTimezone formats t in the agency timezone. The zero time renders as "-".
func FormatInBizTimezone(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(Location()).Format(layout)
}
