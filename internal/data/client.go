// Package data acquires price series and quotes from the market-data API
// and from local fixtures/archives.
package data

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"

	"nifty-signals/internal/model"
)

// APIError represents an error response from the market-data API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // for rate limit errors
}

func (e *APIError) Error() string {
	return e.Message
}

// Quote is the latest traded state of one instrument.
type Quote struct {
	Symbol        string  `json:"symbol"`
	LastPrice     float64 `json:"lastPrice"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"pChange"`
	Open          float64 `json:"open"`
	DayHigh       float64 `json:"dayHigh"`
	DayLow        float64 `json:"dayLow"`
	Volume        int64   `json:"totalTradedVolume"`
}

// Client fetches quotes and daily bars from an NSE-style JSON API.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient creates an API client. If baseURL is empty, defaults to the
// public NSE endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.nseindia.com"
	}
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type indexQuoteResponse struct {
	Data []Quote `json:"data"`
}

// FetchIndexQuotes returns the latest quotes for every constituent of the
// named index (e.g. "NIFTY 50").
func (c *Client) FetchIndexQuotes(index string) ([]Quote, error) {
	if index == "" {
		return nil, fmt.Errorf("index is required")
	}

	u, err := url.Parse(c.BaseURL + "/api/equity-stockIndices")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("index", index)
	u.RawQuery = q.Encode()

	var resp indexQuoteResponse
	if err := c.getJSON(u.String(), "index="+index, &resp); err != nil {
		return nil, err
	}
	log.Printf("[Quotes] Received %d quotes (index=%s)", len(resp.Data), index)
	return resp.Data, nil
}

type historicalResponse struct {
	Symbol string           `json:"symbol"`
	Data   []model.PriceBar `json:"data"`
}

// FetchDailyBars returns up to `days` daily bars for a symbol, oldest first.
func (c *Client) FetchDailyBars(symbol string, days int) (model.Series, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if days <= 0 {
		days = 365
	}

	u, err := url.Parse(c.BaseURL + "/api/historical/cm/equity")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)
	q := u.Query()
	q.Set("symbol", symbol)
	q.Set("from", start.Format("2006-01-02"))
	q.Set("to", end.Format("2006-01-02"))
	u.RawQuery = q.Encode()

	var resp historicalResponse
	if err := c.getJSON(u.String(), "symbol="+symbol, &resp); err != nil {
		return nil, err
	}

	series := model.Series(resp.Data)
	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("bars for %s: %w", symbol, err)
	}
	log.Printf("[Quotes] Received %d bars (symbol=%s)", len(series), symbol)
	return series, nil
}

// DailyBars implements Provider via FetchDailyBars with a one-year window.
func (c *Client) DailyBars(symbol string) (model.Series, error) {
	return c.FetchDailyBars(symbol, 365)
}

func (c *Client) getJSON(rawURL, desc string, out any) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "nifty-signals/1.0")

	startTime := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("[Quotes] Request failed: %v (duration: %v, %s)", err, duration, desc)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[Quotes] Response: %d %s (duration: %v, %s)", resp.StatusCode, resp.Status, duration, desc)

	switch resp.StatusCode {
	case http.StatusOK:
		// Success, continue.
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       "ACCESS_DENIED",
			Message:    fmt.Sprintf("API denied access: %s", resp.Status),
		}
	default:
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// QuoteMap indexes quotes by symbol for price lookups.
func QuoteMap(quotes []Quote) map[string]float64 {
	out := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		out[q.Symbol] = q.LastPrice
	}
	return out
}
