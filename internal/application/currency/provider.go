// Package currency implements the rate provider: a process-local rate cache
// with a time-boxed lifetime, fetch-with-fallback against a remote source,
// and the conversion operations built on top of one snapshot.
package currency

import (
	"context"
	"time"

	"github.com/tripdesk/tripdesk/internal/domain/currency"
	"github.com/tripdesk/tripdesk/internal/shared/biztime"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
)

const (
	DefaultCacheTTL     = 24 * time.Hour
	DefaultFetchTimeout = 5 * time.Second
)

// Config tunes the provider. Zero values fall back to the defaults.
type Config struct {
	CacheTTL     time.Duration
	FetchTimeout time.Duration
}

// fetchOutcome tags how a snapshot was obtained by the fetch step.
type fetchOutcome int

const (
	outcomeLive fetchOutcome = iota
	outcomeStale
	outcomeFreshFallback
)

func (o fetchOutcome) String() string {
	switch o {
	case outcomeLive:
		return "live"
	case outcomeStale:
		return "stale"
	default:
		return "fallback"
	}
}

type fetchResult struct {
	outcome  fetchOutcome
	snapshot *currency.Snapshot
	err      error
}

// Conversion is the full result of converting one amount with a single snapshot.
type Conversion struct {
	Amount             float64
	From               string
	To                 string
	Rate               float64
	ConvertedAmount    float64
	FormattedAmount    string
	FormattedConverted string
	IsFallback         bool
	FetchedAt          time.Time
}

// CacheStatus describes the cache without touching the remote source.
type CacheStatus struct {
	Populated  bool
	CachedAt   time.Time
	ExpiresAt  time.Time
	Stale      bool
	FetchedAt  time.Time
	LiveSource bool
}

type Option func(*RateProvider)

// WithClock replaces the time source. Tests use it to move past the TTL.
func WithClock(now func() time.Time) Option {
	return func(p *RateProvider) {
		p.now = now
	}
}

func WithMetrics(m MetricsRecorder) Option {
	return func(p *RateProvider) {
		if m != nil {
			p.metrics = m
		}
	}
}

// RateProvider owns the currency catalog and the rate cache. One instance is
// shared by every adapter in the process.
type RateProvider struct {
	source  RateSource
	catalog *currency.Catalog
	cache   *RateCache
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
	metrics MetricsRecorder
	logger  logger.Interface
}

func NewRateProvider(source RateSource, catalog *currency.Catalog, cfg Config, log logger.Interface, opts ...Option) *RateProvider {
	if catalog == nil {
		catalog = currency.DefaultCatalog()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	p := &RateProvider{
		source:  source,
		catalog: catalog,
		cache:   NewRateCache(),
		ttl:     cfg.CacheTTL,
		timeout: cfg.FetchTimeout,
		now:     biztime.NowUTC,
		metrics: noopMetrics{},
		logger:  log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BaseCurrency returns the currency every snapshot is expressed against.
func (p *RateProvider) BaseCurrency() string {
	return p.catalog.Base()
}

// ListSupportedCurrencies returns the catalog in its fixed order.
func (p *RateProvider) ListSupportedCurrencies() []currency.Info {
	return p.catalog.List()
}

// GetCurrencyInfo looks up code with an exact, case-sensitive match.
func (p *RateProvider) GetCurrencyInfo(code string) (currency.Info, bool) {
	return p.catalog.Lookup(code)
}

// GetRates returns the cached snapshot while it is younger than the TTL and
// otherwise runs the fetch step. It never fails; upstream problems degrade to
// the stale snapshot or the static fallback table.
func (p *RateProvider) GetRates(ctx context.Context) *currency.Snapshot {
	if snapshot, cachedAt, ok := p.cache.Load(); ok && p.now().Sub(cachedAt) < p.ttl {
		p.metrics.ObserveCacheLookup(true)
		return snapshot.Clone()
	}
	p.metrics.ObserveCacheLookup(false)

	return p.resolve(ctx)
}

// RefreshRates clears the cache and runs the fetch step unconditionally.
func (p *RateProvider) RefreshRates(ctx context.Context) *currency.Snapshot {
	p.cache.Clear()
	p.logger.Infow("exchange rate cache cleared")

	return p.resolve(ctx)
}

func (p *RateProvider) resolve(ctx context.Context) *currency.Snapshot {
	start := p.now()
	result := p.fetch(ctx)
	p.metrics.ObserveFetch(result.outcome.String(), p.now().Sub(start))

	switch result.outcome {
	case outcomeLive:
		p.logger.Infow("exchange rates updated",
			"base", result.snapshot.BaseCurrency,
			"currencies", len(result.snapshot.Rates),
			"fetched_at", result.snapshot.FetchedAt,
		)
	case outcomeStale:
		p.logger.Warnw("exchange rate fetch failed, serving stale snapshot",
			"error", result.err,
			"fetched_at", result.snapshot.FetchedAt,
		)
	case outcomeFreshFallback:
		if result.err != nil {
			p.logger.Warnw("exchange rate fetch failed, serving fallback rates", "error", result.err)
		} else {
			p.logger.Debugw("no exchange rate API key configured, serving fallback rates")
		}
	}

	return result.snapshot.Clone()
}

// fetch tries the remote source and degrades to the stale snapshot, then to
// the fallback table. Only a live result is stored; no lock is held while the
// remote call is in flight.
func (p *RateProvider) fetch(ctx context.Context) fetchResult {
	if p.source == nil || !p.source.HasCredentials() {
		return fetchResult{outcome: outcomeFreshFallback, snapshot: p.fallbackSnapshot()}
	}

	snapshot, err := p.fetchLive(ctx)
	if err == nil {
		p.cache.Store(snapshot, p.now())
		return fetchResult{outcome: outcomeLive, snapshot: snapshot}
	}

	if previous, _, ok := p.cache.Load(); ok {
		return fetchResult{outcome: outcomeStale, snapshot: previous, err: err}
	}
	return fetchResult{outcome: outcomeFreshFallback, snapshot: p.fallbackSnapshot(), err: err}
}

func (p *RateProvider) fetchLive(ctx context.Context) (*currency.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	remote, err := p.source.FetchLatest(ctx, p.catalog.Base(), p.catalog.Codes())
	if err != nil {
		return nil, err
	}

	now := p.now()
	fetchedAt := remote.Timestamp
	if fetchedAt.IsZero() {
		fetchedAt = now
	}
	return currency.NewSnapshot(p.catalog.Base(), remote.Rates, fetchedAt, now, false)
}

func (p *RateProvider) fallbackSnapshot() *currency.Snapshot {
	now := p.now()
	snapshot, err := currency.NewSnapshot(p.catalog.Base(), p.catalog.FallbackRates(), now, now, true)
	if err != nil {
		// The catalog validates every fallback rate when it is parsed.
		panic(err)
	}
	return snapshot
}

// Convert converts amount from one currency to another without rounding.
// Converting a currency to itself returns amount before any rate lookup.
func (p *RateProvider) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}
	return convertWith(p.GetRates(ctx), amount, from, to)
}

// GetExchangeRate returns how many units of to one unit of from buys.
func (p *RateProvider) GetExchangeRate(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1.0, nil
	}
	return rateWith(p.GetRates(ctx), from, to)
}

// Quote converts amount and reports the rate used, both computed from the same snapshot.
func (p *RateProvider) Quote(ctx context.Context, amount float64, from, to string) (*Conversion, error) {
	conv := &Conversion{
		Amount: amount,
		From:   from,
		To:     to,
	}

	if from == to {
		conv.Rate = 1.0
		conv.ConvertedAmount = amount
	} else {
		snapshot := p.GetRates(ctx)
		rate, err := rateWith(snapshot, from, to)
		if err != nil {
			return nil, err
		}
		converted, err := convertWith(snapshot, amount, from, to)
		if err != nil {
			return nil, err
		}
		conv.Rate = rate
		conv.ConvertedAmount = converted
		conv.IsFallback = snapshot.IsFallback
		conv.FetchedAt = snapshot.FetchedAt
	}

	conv.FormattedAmount = p.FormatAmount(conv.Amount, from)
	conv.FormattedConverted = p.FormatAmount(conv.ConvertedAmount, to)
	return conv, nil
}

// FormatAmount renders amount with the currency symbol, or "{amount} {code}"
// for codes outside the catalog.
func (p *RateProvider) FormatAmount(amount float64, code string) string {
	return p.catalog.Format(amount, code)
}

// RebaseRates re-expresses snapshot against base.
func (p *RateProvider) RebaseRates(snapshot *currency.Snapshot, base string) (*currency.Snapshot, error) {
	if snapshot.BaseCurrency == base {
		return snapshot.Clone(), nil
	}
	return snapshot.Rebase(base)
}

// CacheStatus reports the cache state. It never triggers a fetch.
func (p *RateProvider) CacheStatus() CacheStatus {
	status := CacheStatus{
		LiveSource: p.source != nil && p.source.HasCredentials(),
	}

	snapshot, cachedAt, ok := p.cache.Load()
	if !ok {
		return status
	}

	status.Populated = true
	status.CachedAt = cachedAt
	status.ExpiresAt = cachedAt.Add(p.ttl)
	status.Stale = p.now().Sub(cachedAt) >= p.ttl
	status.FetchedAt = snapshot.FetchedAt
	return status
}

func convertWith(snapshot *currency.Snapshot, amount float64, from, to string) (float64, error) {
	result := amount
	if from != snapshot.BaseCurrency {
		rate, ok := snapshot.Rate(from)
		if !ok {
			return 0, currency.NewRateNotFoundError(from)
		}
		result /= rate
	}
	if to != snapshot.BaseCurrency {
		rate, ok := snapshot.Rate(to)
		if !ok {
			return 0, currency.NewRateNotFoundError(to)
		}
		result *= rate
	}
	return result, nil
}

func rateWith(snapshot *currency.Snapshot, from, to string) (float64, error) {
	fromRate, ok := snapshot.Rate(from)
	if !ok {
		return 0, currency.NewRateNotFoundError(from)
	}
	toRate, ok := snapshot.Rate(to)
	if !ok {
		return 0, currency.NewRateNotFoundError(to)
	}

	switch {
	case from == snapshot.BaseCurrency:
		return toRate, nil
	case to == snapshot.BaseCurrency:
		return 1.0 / fromRate, nil
	default:
		return toRate / fromRate, nil
	}
}
