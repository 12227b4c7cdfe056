// Package exchangerate talks to the remote rate source, an Open Exchange
// Rates compatible "latest.json" endpoint.
package exchangerate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tripdesk/tripdesk/internal/application/currency"
	"github.com/tripdesk/tripdesk/internal/shared/biztime"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
	"github.com/tripdesk/tripdesk/internal/shared/utils/logutil"
)

const (
	DefaultAPIURL = "https://openexchangerates.org/api"
	// Upper bound for one request; the provider usually sets a shorter context deadline.
	requestTimeout = 10 * time.Second
	// Maximum response body size for the latest rates endpoint (256KB)
	maxResponseSize = 256 << 10
	// How much of an error body ends up in the logs
	maxErrorBodyLog = 200
)

var (
	// ErrUpstreamStatus reports a non-200 answer from the rate source.
	ErrUpstreamStatus = errors.New("unexpected upstream status")
	// ErrMalformedResponse reports a payload that cannot be used as a rate table.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// latestResponse represents the latest.json payload
type latestResponse struct {
	Timestamp int64              `json:"timestamp"`
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
}

// errorResponse is what the API sends alongside 4xx answers
type errorResponse struct {
	Error       bool   `json:"error"`
	Status      int    `json:"status"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// Client implements currency.RateSource over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Interface
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default client, mostly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for baseURL. An empty baseURL means DefaultAPIURL.
func NewClient(baseURL, apiKey string, log logger.Interface, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ensure Client implements RateSource
var _ currency.RateSource = (*Client)(nil)

func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// FetchLatest requests the latest rates for symbols against base.
func (c *Client) FetchLatest(ctx context.Context, base string, symbols []string) (*currency.RemoteRates, error) {
	if !c.HasCredentials() {
		return nil, errors.New("exchange rate API key is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.latestURL(base, symbols), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}

	var data latestResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if data.Rates == nil {
		return nil, fmt.Errorf("%w: rates missing", ErrMalformedResponse)
	}
	if data.Base != "" && data.Base != base {
		return nil, fmt.Errorf("%w: base %q, requested %q", ErrMalformedResponse, data.Base, base)
	}

	c.logger.Debugw("fetched latest exchange rates",
		"base", base,
		"currencies", len(data.Rates),
		"timestamp", data.Timestamp,
	)

	return &currency.RemoteRates{
		Base:      base,
		Rates:     data.Rates,
		Timestamp: biztime.FromUnix(data.Timestamp),
	}, nil
}

func (c *Client) latestURL(base string, symbols []string) string {
	q := url.Values{}
	q.Set("app_id", c.apiKey)
	q.Set("base", base)
	if len(symbols) > 0 {
		q.Set("symbols", strings.Join(symbols, ","))
	}
	return c.baseURL + "/latest.json?" + q.Encode()
}

func (c *Client) statusError(status int, body []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%w: %d %s", ErrUpstreamStatus, status, apiErr.Message)
	}

	c.logger.Debugw("exchange rate API error body",
		"status", status,
		"body", logutil.TruncateForLog(string(body), maxErrorBodyLog),
	)
	return fmt.Errorf("%w: %d", ErrUpstreamStatus, status)
}
