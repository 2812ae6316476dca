package nager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/va6996/tickerdesk/cache"
	"github.com/va6996/tickerdesk/config"
	"github.com/va6996/tickerdesk/log"
)

const (
	BaseURL = "https://date.nager.at/api/v3"

	// holidays for a past or current year do not change
	holidayTTL = 24 * time.Hour
)

// ErrUnknownCountry is returned when Nager.Date has no calendar for a country
var ErrUnknownCountry = errors.New("unknown country code")

// Client handles Nager.Date API requests
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      cache.Store

	now func() time.Time
}

// NewClient creates a new Nager.Date API client
func NewClient(cfg config.MarketConfig, store cache.Store) *Client {
	baseURL := strings.TrimRight(cfg.HolidaysURL, "/")
	if baseURL == "" {
		baseURL = BaseURL
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		Cache:      store,
		now:        time.Now,
	}
}

// Holiday represents a public holiday from Nager.Date API
type Holiday struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Counties    []string `json:"counties,omitempty"`
	Types       []string `json:"types,omitempty"`
}

// MarketDay says whether exchanges in a country are expected to trade on a date
type MarketDay struct {
	Date        string `json:"date"`
	CountryCode string `json:"country_code"`
	Open        bool   `json:"open"`
	Reason      string `json:"reason,omitempty"`
}

// GetPublicHolidays returns public holidays for a specific country and year
func (c *Client) GetPublicHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error) {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if code == "" {
		return nil, fmt.Errorf("country_code is required")
	}

	key := cache.Key("nager:holidays", code, year)
	var holidays []Holiday
	if cache.GetJSON(ctx, c.Cache, key, &holidays) {
		log.Debugf(ctx, "[Nager] cache hit for %s", key)
		return holidays, nil
	}

	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", c.BaseURL, year, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get public holidays: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCountry, code)
	default:
		return nil, fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if err := cache.SetJSON(ctx, c.Cache, key, holidays, holidayTTL); err != nil {
		log.Warnf(ctx, "[Nager] failed to cache %s: %v", key, err)
	}
	return holidays, nil
}

// MarketDayFor reports whether date is a trading day in the country.
// Weekends and nationwide public holidays count as closed.
func (c *Client) MarketDayFor(ctx context.Context, countryCode string, date time.Time) (*MarketDay, error) {
	day := &MarketDay{
		Date:        date.Format("2006-01-02"),
		CountryCode: strings.ToUpper(strings.TrimSpace(countryCode)),
		Open:        true,
	}

	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		day.Open = false
		day.Reason = wd.String()
		return day, nil
	}

	holidays, err := c.GetPublicHolidays(ctx, date.Year(), countryCode)
	if err != nil {
		return nil, err
	}
	for _, h := range holidays {
		if h.Date == day.Date && h.Global {
			day.Open = false
			day.Reason = h.Name
			break
		}
	}
	return day, nil
}
