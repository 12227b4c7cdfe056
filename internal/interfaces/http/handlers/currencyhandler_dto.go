package handlers

import (
	"time"

	appcurrency "github.com/tripdesk/tripdesk/internal/application/currency"
	"github.com/tripdesk/tripdesk/internal/domain/currency"
)

const (
	ratePrecision   = 4
	amountPrecision = 2
)

// CurrencyInfoResponse is one entry of the supported currency table.
type CurrencyInfoResponse struct {
	Code        string `json:"code" example:"EUR"`
	DisplayName string `json:"displayName" example:"Euro"`
	Symbol      string `json:"symbol" example:"€"`
}

type RatesQuery struct {
	Base string `form:"base" binding:"omitempty,currency_code"`
}

// RatesResponse is a rate snapshot. Rates are units of each currency per one
// unit of BaseCurrency.
type RatesResponse struct {
	BaseCurrency  string             `json:"baseCurrency" example:"USD"`
	Rates         map[string]float64 `json:"rates"`
	FetchedAt     time.Time          `json:"fetchedAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	IsFallback    bool               `json:"isFallback"`
}

type ConvertRequest struct {
	Amount       *float64 `json:"amount" binding:"required" example:"250"`
	FromCurrency string   `json:"fromCurrency" binding:"required" example:"EUR"`
	ToCurrency   string   `json:"toCurrency" binding:"required" example:"GBP"`
}

type ConvertResponse struct {
	Amount                   float64 `json:"amount" example:"250"`
	FromCurrency             string  `json:"fromCurrency" example:"EUR"`
	ToCurrency               string  `json:"toCurrency" example:"GBP"`
	Rate                     float64 `json:"rate" example:"0.8587"`
	ConvertedAmount          float64 `json:"convertedAmount" example:"214.67"`
	FormattedAmount          string  `json:"formattedAmount" example:"€250.00"`
	FormattedConvertedAmount string  `json:"formattedConvertedAmount" example:"£214.67"`
	IsFallback               bool    `json:"isFallback"`
}

type ExchangeRateResponse struct {
	FromCurrency string  `json:"fromCurrency" example:"USD"`
	ToCurrency   string  `json:"toCurrency" example:"EUR"`
	Rate         float64 `json:"rate" example:"0.92"`
}

type FormatRequest struct {
	Amount       *float64 `json:"amount" binding:"required" example:"1234.5"`
	CurrencyCode string   `json:"currencyCode" binding:"required" example:"USD"`
}

type FormatResponse struct {
	Amount       float64 `json:"amount" example:"1234.5"`
	CurrencyCode string  `json:"currencyCode" example:"USD"`
	Formatted    string  `json:"formatted" example:"$1,234.50"`
}

// CacheStatusResponse describes the rate cache. Timestamps are omitted while
// the cache is empty.
type CacheStatusResponse struct {
	BaseCurrency string     `json:"baseCurrency" example:"USD"`
	Populated    bool       `json:"populated"`
	Stale        bool       `json:"stale"`
	LiveSource   bool       `json:"liveSource"`
	CachedAt     *time.Time `json:"cachedAt,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	FetchedAt    *time.Time `json:"fetchedAt,omitempty"`
}

func toCurrencyInfoResponse(info currency.Info) CurrencyInfoResponse {
	return CurrencyInfoResponse{
		Code:        info.Code,
		DisplayName: info.Name,
		Symbol:      info.Symbol,
	}
}

func toRatesResponse(snapshot *currency.Snapshot) *RatesResponse {
	return &RatesResponse{
		BaseCurrency:  snapshot.BaseCurrency,
		Rates:         snapshot.Rates,
		FetchedAt:     snapshot.FetchedAt,
		LastUpdatedAt: snapshot.LastUpdatedAt,
		IsFallback:    snapshot.IsFallback,
	}
}

func toConvertResponse(conv *appcurrency.Conversion) *ConvertResponse {
	return &ConvertResponse{
		Amount:                   conv.Amount,
		FromCurrency:             conv.From,
		ToCurrency:               conv.To,
		Rate:                     currency.RoundHalfAwayFromZero(conv.Rate, ratePrecision),
		ConvertedAmount:          currency.RoundHalfAwayFromZero(conv.ConvertedAmount, amountPrecision),
		FormattedAmount:          conv.FormattedAmount,
		FormattedConvertedAmount: conv.FormattedConverted,
		IsFallback:               conv.IsFallback,
	}
}

func toCacheStatusResponse(base string, status appcurrency.CacheStatus) *CacheStatusResponse {
	resp := &CacheStatusResponse{
		BaseCurrency: base,
		Populated:    status.Populated,
		Stale:        status.Stale,
		LiveSource:   status.LiveSource,
	}
	if status.Populated {
		resp.CachedAt = &status.CachedAt
		resp.ExpiresAt = &status.ExpiresAt
		resp.FetchedAt = &status.FetchedAt
	}
	return resp
}
