package handlers

import (
	"context"

	appcurrency "github.com/tripdesk/tripdesk/internal/application/currency"
	"github.com/tripdesk/tripdesk/internal/domain/currency"
)

// Service interfaces for CurrencyHandler

type currencyService interface {
	BaseCurrency() string
	ListSupportedCurrencies() []currency.Info
	GetCurrencyInfo(code string) (currency.Info, bool)
	GetRates(ctx context.Context) *currency.Snapshot
	RefreshRates(ctx context.Context) *currency.Snapshot
	RebaseRates(snapshot *currency.Snapshot, base string) (*currency.Snapshot, error)
	Quote(ctx context.Context, amount float64, from, to string) (*appcurrency.Conversion, error)
	GetExchangeRate(ctx context.Context, from, to string) (float64, error)
	FormatAmount(amount float64, code string) string
	CacheStatus() appcurrency.CacheStatus
}

type conversionRecorder interface {
	ObserveConversion(from, to string)
}
