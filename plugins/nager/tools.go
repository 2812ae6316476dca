package nager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/tickerdesk/log"
	"github.com/va6996/tickerdesk/tools"
)

const (
	ToolHolidays  = "get_market_holidays"
	ToolMarketDay = "is_market_open"
)

// ToolNames lists every tool this plugin registers
var ToolNames = []string{ToolHolidays, ToolMarketDay}

var _ tools.ToolPlugin = (*Client)(nil)

type HolidaysInput struct {
	CountryCode string `json:"country_code" description:"ISO country code of the exchange (e.g. 'US', 'GB')"`
	Year        int    `json:"year,omitempty" description:"Year (e.g. 2026), defaults to the current year"`
}

type HolidaysOutput struct {
	CountryCode string    `json:"country_code"`
	Year        int       `json:"year"`
	Holidays    []Holiday `json:"holidays"`
	Count       int       `json:"count"`
}

type MarketDayInput struct {
	CountryCode string `json:"country_code" description:"ISO country code of the exchange (e.g. 'US')"`
	Date        string `json:"date,omitempty" description:"Date as YYYY-MM-DD, defaults to today"`
}

// RegisterTools registers the market calendar tools
func (c *Client) RegisterTools(gk *genkit.Genkit, registry *tools.Registry) {
	if gk == nil || registry == nil {
		log.Warn(context.Background(), "[Nager] Cannot register tools: genkit or registry is nil")
		return
	}

	tools.Define(gk, registry, ToolHolidays,
		"Returns public holidays for a country and year. Exchanges are usually closed on nationwide holidays.",
		c.holidaysTool)
	tools.Define(gk, registry, ToolMarketDay,
		"Checks whether exchanges in a country are expected to trade on a date (weekends and nationwide public holidays are closed). Use it to explain missing price moves.",
		c.marketDayTool)
}

func (c *Client) holidaysTool(ctx context.Context, input *HolidaysInput) (*HolidaysOutput, error) {
	if input == nil || input.CountryCode == "" {
		return nil, fmt.Errorf("country_code is required")
	}
	year := input.Year
	if year == 0 {
		year = c.now().Year()
	}

	holidays, err := c.GetPublicHolidays(ctx, year, input.CountryCode)
	if err != nil {
		log.Errorf(ctx, "[Nager] holidays lookup failed: %v", err)
		return nil, err
	}
	return &HolidaysOutput{
		CountryCode: strings.ToUpper(input.CountryCode),
		Year:        year,
		Holidays:    holidays,
		Count:       len(holidays),
	}, nil
}

func (c *Client) marketDayTool(ctx context.Context, input *MarketDayInput) (*MarketDay, error) {
	if input == nil || input.CountryCode == "" {
		return nil, fmt.Errorf("country_code is required")
	}
	date := c.now()
	if input.Date != "" {
		d, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, fmt.Errorf("date must be YYYY-MM-DD, got %q", input.Date)
		}
		date = d
	}

	day, err := c.MarketDayFor(ctx, input.CountryCode, date)
	if err != nil {
		log.Errorf(ctx, "[Nager] market day lookup failed: %v", err)
		return nil, err
	}
	log.Debugf(ctx, "[Nager] %s %s open=%v", day.CountryCode, day.Date, day.Open)
	return day, nil
}
