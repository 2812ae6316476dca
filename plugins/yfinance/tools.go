package yfinance

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/genkit"
	"github.com/invopop/jsonschema"
	"github.com/va6996/tickerdesk/log"
	"github.com/va6996/tickerdesk/tools"
)

// Tool names, as the model sees them
const (
	ToolStockPrice      = "get_current_stock_price"
	ToolRecommendations = "get_analyst_recommendations"
	ToolFundamentals    = "get_stock_fundamentals"
	ToolCompanyNews     = "get_company_news"
)

// ToolNames lists every tool this plugin registers
var ToolNames = []string{ToolStockPrice, ToolRecommendations, ToolFundamentals, ToolCompanyNews}

var _ tools.ToolPlugin = (*Client)(nil)

type SymbolInput struct {
	Symbol string `json:"symbol" description:"Stock ticker symbol (e.g. 'NVDA')"`
}

type RecommendationsOutput struct {
	Symbol string                `json:"symbol"`
	Trend  []RecommendationTrend `json:"trend"`
}

// CompanyNewsInput takes num_stories untyped: models send 3, 3.0, "3" or "three"
type CompanyNewsInput struct {
	CompanyTicker string `json:"company_ticker" description:"Stock ticker symbol (e.g. 'NVDA')"`
	NumStories    any    `json:"num_stories,omitempty" description:"Number of stories to return (integer, default 5)"`
}

// JSONSchemaExtend publishes num_stories as a string
func (CompanyNewsInput) JSONSchemaExtend(s *jsonschema.Schema) {
	tools.SetCountProperty(s, "num_stories", `Number of stories to return as digits, e.g. "3" (default 5)`)
}

type CompanyNewsOutput struct {
	Symbol  string     `json:"symbol"`
	Stories []NewsItem `json:"stories"`
	Count   int        `json:"count"`
}

// RegisterTools registers the market data tools
func (c *Client) RegisterTools(gk *genkit.Genkit, registry *tools.Registry) {
	if gk == nil || registry == nil {
		log.Warn(context.Background(), "[YFinance] Cannot register tools: genkit or registry is nil")
		return
	}

	tools.Define(gk, registry, ToolStockPrice,
		"Returns the current stock price for a ticker symbol, with previous close, day range, volume and 52-week range.",
		c.stockPriceTool)
	tools.Define(gk, registry, ToolRecommendations,
		"Returns analyst recommendation counts (strong buy, buy, hold, sell, strong sell) per month for a ticker symbol, most recent first.",
		c.recommendationsTool)
	tools.Define(gk, registry, ToolFundamentals,
		"Returns company profile and fundamentals for a ticker symbol: sector, industry, market cap, P/E, EPS, dividend yield, revenue, margins and analyst target price.",
		c.fundamentalsTool)
	tools.Define(gk, registry, ToolCompanyNews,
		"Returns the latest news stories for a company. Arguments: company_ticker (string, required), num_stories (number of stories as a string such as '3', optional, default 5).",
		c.companyNewsTool)

	log.Infof(context.Background(), "[YFinance] Registered tools: %v", ToolNames)
}

func (c *Client) stockPriceTool(ctx context.Context, input *SymbolInput) (*Quote, error) {
	if input == nil || input.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	quote, err := c.GetStockPrice(ctx, input.Symbol)
	if err != nil {
		log.Errorf(ctx, "[YFinance] price lookup failed: %v", err)
		return nil, err
	}
	return quote, nil
}

func (c *Client) recommendationsTool(ctx context.Context, input *SymbolInput) (*RecommendationsOutput, error) {
	if input == nil || input.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	trend, err := c.GetAnalystRecommendations(ctx, input.Symbol)
	if err != nil {
		log.Errorf(ctx, "[YFinance] recommendations lookup failed: %v", err)
		return nil, err
	}
	return &RecommendationsOutput{Symbol: input.Symbol, Trend: trend}, nil
}

func (c *Client) fundamentalsTool(ctx context.Context, input *SymbolInput) (*Fundamentals, error) {
	if input == nil || input.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	f, err := c.GetStockFundamentals(ctx, input.Symbol)
	if err != nil {
		log.Errorf(ctx, "[YFinance] fundamentals lookup failed: %v", err)
		return nil, err
	}
	return f, nil
}

// companyNewsTool coerces num_stories before fetching; a bad count falls
// back to tools.DefaultCount instead of failing the call.
func (c *Client) companyNewsTool(ctx context.Context, input *CompanyNewsInput) (*CompanyNewsOutput, error) {
	if input == nil {
		input = &CompanyNewsInput{}
	}
	stories, err := tools.NormalizeAndFetch(ctx, input.CompanyTicker, input.NumStories, c.GetCompanyNews)
	if err != nil {
		log.Errorf(ctx, "[YFinance] news lookup failed: %v", err)
		return nil, err
	}
	log.Debugf(ctx, "[YFinance] %d stories for %s", len(stories), input.CompanyTicker)
	return &CompanyNewsOutput{
		Symbol:  input.CompanyTicker,
		Stories: stories,
		Count:   len(stories),
	}, nil
}
