package yfinance

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

	"github.com/va6996/tickerdesk/cache"
	"github.com/va6996/tickerdesk/config"
	"github.com/va6996/tickerdesk/log"
)

const (
	BaseURL = "https://query1.finance.yahoo.com"

	// Yahoo rejects requests carrying Go's default user agent.
	userAgent = "Mozilla/5.0 (compatible; tickerdesk/1.0)"
)

var (
	// ErrUnknownSymbol is returned when Yahoo has no data for a ticker
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrInvalidCount is returned for non-positive item counts
	ErrInvalidCount = errors.New("count must be positive")
)

// Client is the Yahoo Finance API client
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      cache.Store
	CacheTTL   time.Duration
}

// NewClient creates a new Yahoo Finance client. A nil store disables caching.
func NewClient(cfg config.MarketConfig, store cache.Store) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		Cache:      store,
		CacheTTL:   time.Duration(cfg.CacheTTLSeconds) * time.Second,
	}
}

// apiError is the error object Yahoo embeds in chart and quoteSummary bodies
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) err(symbol string) error {
	if e == nil {
		return nil
	}
	if e.Code == "Not Found" {
		return fmt.Errorf("%w: %s (%s)", ErrUnknownSymbol, symbol, e.Description)
	}
	return fmt.Errorf("yahoo error %s: %s", e.Code, e.Description)
}

// get performs a GET against path and decodes the JSON body into out.
// Non-200 bodies are still decoded so callers can read Yahoo's error object;
// the returned error then carries the HTTP status.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	log.Debugf(ctx, "[YFinance] GET %s", u)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	decodeErr := json.Unmarshal(body, out)
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	return nil
}

// StatusError reports a non-200 response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %s", e.Status)
}

// cached serves key from the cache or calls fetch and stores its result
func cached[T any](ctx context.Context, c *Client, key string, fetch func() (T, error)) (T, error) {
	var out T
	if cache.GetJSON(ctx, c.Cache, key, &out) {
		log.Debugf(ctx, "[YFinance] cache hit %s", key)
		return out, nil
	}
	out, err := fetch()
	if err != nil {
		return out, err
	}
	if err := cache.SetJSON(ctx, c.Cache, key, out, c.CacheTTL); err != nil {
		log.Warnf(ctx, "[YFinance] failed to cache %s: %v", key, err)
	}
	return out, nil
}

func normalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", fmt.Errorf("symbol is required")
	}
	return s, nil
}
