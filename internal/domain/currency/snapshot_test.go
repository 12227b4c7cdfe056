package currency

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	snap, err := NewSnapshot("USD", map[string]float64{"EUR": 0.92}, now, now, false)
	require.NoError(t, err)

	assert.Equal(t, 1.0, snap.Rates["USD"], "base is materialised")
	rate, ok := snap.Rate("EUR")
	assert.True(t, ok)
	assert.Equal(t, 0.92, rate)
}

func TestNewSnapshot_RejectsInvalidRates(t *testing.T) {
	now := time.Now()

	for name, rate := range map[string]float64{
		"zero":     0,
		"negative": -1.5,
		"nan":      math.NaN(),
		"inf":      math.Inf(1),
	} {
		t.Run(name, func(t *testing.T) {
			snap, err := NewSnapshot("USD", map[string]float64{"EUR": 0.9, "GBP": rate}, now, now, false)
			assert.Nil(t, snap)
			assert.True(t, errors.Is(err, ErrInvalidRate))
		})
	}

	_, err := NewSnapshot("USD", nil, now, now, false)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestNewSnapshot_DoesNotAliasInput(t *testing.T) {
	input := map[string]float64{"EUR": 0.92}
	snap, err := NewSnapshot("USD", input, time.Now(), time.Now(), false)
	require.NoError(t, err)

	input["EUR"] = 2
	assert.Equal(t, 0.92, snap.Rates["EUR"])
	_, listed := input["USD"]
	assert.False(t, listed)
}

func TestSnapshot_RateForBaseWithoutEntry(t *testing.T) {
	snap := &Snapshot{BaseCurrency: "USD", Rates: map[string]float64{"EUR": 0.92}}

	rate, ok := snap.Rate("USD")
	assert.True(t, ok)
	assert.Equal(t, 1.0, rate)

	_, ok = snap.Rate("GBP")
	assert.False(t, ok)
}

func TestSnapshot_Clone(t *testing.T) {
	snap, err := NewSnapshot("USD", map[string]float64{"EUR": 0.92}, time.Now(), time.Now(), true)
	require.NoError(t, err)

	clone := snap.Clone()
	clone.Rates["EUR"] = 1.5

	assert.Equal(t, 0.92, snap.Rates["EUR"])
	assert.True(t, clone.IsFallback)
	assert.Nil(t, (*Snapshot)(nil).Clone())
}

func TestSnapshot_Rebase(t *testing.T) {
	snap, err := NewSnapshot("USD", map[string]float64{"EUR": 0.8, "GBP": 0.5}, time.Now(), time.Now(), false)
	require.NoError(t, err)

	rebased, err := snap.Rebase("EUR")
	require.NoError(t, err)

	assert.Equal(t, "EUR", rebased.BaseCurrency)
	assert.Equal(t, 1.0, rebased.Rates["EUR"])
	assert.InDelta(t, 1.25, rebased.Rates["USD"], 1e-12)
	assert.InDelta(t, 0.625, rebased.Rates["GBP"], 1e-12)

	_, err = snap.Rebase("ZZZ")
	var notFound *RateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ZZZ", notFound.Code)
	assert.Equal(t, "Exchange rate not found for ZZZ", err.Error())
	assert.ErrorIs(t, err, ErrRateNotFound)
}
