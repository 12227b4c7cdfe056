package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromUnix(t *testing.T) {
	got := FromUnix(1700000000)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, int64(1700000000), got.Unix())

	assert.True(t, FromUnix(0).IsZero())
	assert.True(t, FromUnix(-5).IsZero())
}

func TestNowUTC(t *testing.T) {
	assert.Equal(t, time.UTC, NowUTC().Location())
}

func TestFormatInBizTimezone(t *testing.T) {
	assert.Equal(t, "-", FormatInBizTimezone(time.Time{}, time.RFC3339))

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, ts.In(Location()).Format(time.RFC3339), FormatInBizTimezone(ts, time.RFC3339))
}
