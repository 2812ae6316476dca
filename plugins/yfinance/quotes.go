package yfinance

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Value is Yahoo's numeric field: a raw number plus its display form
type Value struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt,omitempty"`
}

// Quote is the latest trading snapshot for a symbol
type Quote struct {
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name,omitempty"`
	Exchange         string    `json:"exchange,omitempty"`
	Currency         string    `json:"currency"`
	Price            float64   `json:"price"`
	PreviousClose    float64   `json:"previous_close"`
	DayHigh          float64   `json:"day_high,omitempty"`
	DayLow           float64   `json:"day_low,omitempty"`
	Volume           int64     `json:"volume,omitempty"`
	FiftyTwoWeekHigh float64   `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  float64   `json:"fifty_two_week_low,omitempty"`
	MarketTime       time.Time `json:"market_time"`
}

// RecommendationTrend counts analyst ratings for one period ("0m" is the current month)
type RecommendationTrend struct {
	Period     string `json:"period"`
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
}

// Fundamentals is a flattened selection of quoteSummary modules
type Fundamentals struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name,omitempty"`
	Sector            string  `json:"sector,omitempty"`
	Industry          string  `json:"industry,omitempty"`
	Country           string  `json:"country,omitempty"`
	Website           string  `json:"website,omitempty"`
	Employees         int     `json:"employees,omitempty"`
	Summary           string  `json:"summary,omitempty"`
	Currency          string  `json:"currency,omitempty"`
	MarketCap         float64 `json:"market_cap,omitempty"`
	EnterpriseValue   float64 `json:"enterprise_value,omitempty"`
	TrailingPE        float64 `json:"trailing_pe,omitempty"`
	ForwardPE         float64 `json:"forward_pe,omitempty"`
	PriceToBook       float64 `json:"price_to_book,omitempty"`
	TrailingEPS       float64 `json:"trailing_eps,omitempty"`
	DividendYield     float64 `json:"dividend_yield,omitempty"`
	Beta              float64 `json:"beta,omitempty"`
	FiftyTwoWeekHigh  float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow   float64 `json:"fifty_two_week_low,omitempty"`
	TotalRevenue      float64 `json:"total_revenue,omitempty"`
	GrossMargins      float64 `json:"gross_margins,omitempty"`
	ReturnOnEquity    float64 `json:"return_on_equity,omitempty"`
	TargetMeanPrice   float64 `json:"target_mean_price,omitempty"`
	RecommendationKey string  `json:"recommendation_key,omitempty"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string  `json:"symbol"`
				Currency             string  `json:"currency"`
				ExchangeName         string  `json:"exchangeName"`
				LongName             string  `json:"longName"`
				ShortName            string  `json:"shortName"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				PreviousClose        float64 `json:"previousClose"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				RegularMarketVolume  int64   `json:"regularMarketVolume"`
				FiftyTwoWeekHigh     float64 `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow      float64 `json:"fiftyTwoWeekLow"`
				RegularMarketTime    int64   `json:"regularMarketTime"`
			} `json:"meta"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	RecommendationTrend *struct {
		Trend []RecommendationTrend `json:"trend"`
	} `json:"recommendationTrend"`
	AssetProfile *struct {
		Sector              string `json:"sector"`
		Industry            string `json:"industry"`
		Country             string `json:"country"`
		Website             string `json:"website"`
		FullTimeEmployees   int    `json:"fullTimeEmployees"`
		LongBusinessSummary string `json:"longBusinessSummary"`
	} `json:"assetProfile"`
	SummaryDetail *struct {
		MarketCap        Value  `json:"marketCap"`
		TrailingPE       Value  `json:"trailingPE"`
		ForwardPE        Value  `json:"forwardPE"`
		DividendYield    Value  `json:"dividendYield"`
		Beta             Value  `json:"beta"`
		FiftyTwoWeekHigh Value  `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  Value  `json:"fiftyTwoWeekLow"`
		Currency         string `json:"currency"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics *struct {
		EnterpriseValue Value `json:"enterpriseValue"`
		PriceToBook     Value `json:"priceToBook"`
		TrailingEps     Value `json:"trailingEps"`
	} `json:"defaultKeyStatistics"`
	FinancialData *struct {
		TotalRevenue      Value  `json:"totalRevenue"`
		GrossMargins      Value  `json:"grossMargins"`
		ReturnOnEquity    Value  `json:"returnOnEquity"`
		TargetMeanPrice   Value  `json:"targetMeanPrice"`
		RecommendationKey string `json:"recommendationKey"`
	} `json:"financialData"`
	Price *struct {
		LongName  string `json:"longName"`
		ShortName string `json:"shortName"`
	} `json:"price"`
}

// GetStockPrice returns the latest quote for symbol
func (c *Client) GetStockPrice(ctx context.Context, symbol string) (*Quote, error) {
	sym, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	return cached(ctx, c, "yf:price:"+sym, func() (*Quote, error) {
		var resp chartResponse
		query := url.Values{"interval": {"1d"}, "range": {"1d"}}
		err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(sym), query, &resp)
		if apiErr := resp.Chart.Error.err(sym); apiErr != nil {
			return nil, apiErr
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get price for %s: %w", sym, err)
		}
		if len(resp.Chart.Result) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, sym)
		}

		m := resp.Chart.Result[0].Meta
		name := m.LongName
		if name == "" {
			name = m.ShortName
		}
		prev := m.PreviousClose
		if prev == 0 {
			prev = m.ChartPreviousClose
		}
		return &Quote{
			Symbol:           m.Symbol,
			Name:             name,
			Exchange:         m.ExchangeName,
			Currency:         m.Currency,
			Price:            m.RegularMarketPrice,
			PreviousClose:    prev,
			DayHigh:          m.RegularMarketDayHigh,
			DayLow:           m.RegularMarketDayLow,
			Volume:           m.RegularMarketVolume,
			FiftyTwoWeekHigh: m.FiftyTwoWeekHigh,
			FiftyTwoWeekLow:  m.FiftyTwoWeekLow,
			MarketTime:       time.Unix(m.RegularMarketTime, 0).UTC(),
		}, nil
	})
}

// quoteSummary fetches the given modules for symbol
func (c *Client) quoteSummary(ctx context.Context, sym, modules string) (*quoteSummaryResult, error) {
	var resp quoteSummaryResponse
	err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(sym), url.Values{"modules": {modules}}, &resp)
	if apiErr := resp.QuoteSummary.Error.err(sym); apiErr != nil {
		return nil, apiErr
	}
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == 404 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, sym)
		}
		return nil, fmt.Errorf("failed to get %s for %s: %w", modules, sym, err)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, sym)
	}
	return &resp.QuoteSummary.Result[0], nil
}

// GetAnalystRecommendations returns analyst rating counts, most recent period first
func (c *Client) GetAnalystRecommendations(ctx context.Context, symbol string) ([]RecommendationTrend, error) {
	sym, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	return cached(ctx, c, "yf:recommendations:"+sym, func() ([]RecommendationTrend, error) {
		res, err := c.quoteSummary(ctx, sym, "recommendationTrend")
		if err != nil {
			return nil, err
		}
		if res.RecommendationTrend == nil {
			return []RecommendationTrend{}, nil
		}
		return res.RecommendationTrend.Trend, nil
	})
}

// GetStockFundamentals returns company profile and valuation figures
func (c *Client) GetStockFundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	sym, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	return cached(ctx, c, "yf:fundamentals:"+sym, func() (*Fundamentals, error) {
		res, err := c.quoteSummary(ctx, sym, "assetProfile,summaryDetail,defaultKeyStatistics,financialData,price")
		if err != nil {
			return nil, err
		}

		f := &Fundamentals{Symbol: sym}
		if p := res.Price; p != nil {
			f.Name = p.LongName
			if f.Name == "" {
				f.Name = p.ShortName
			}
		}
		if a := res.AssetProfile; a != nil {
			f.Sector = a.Sector
			f.Industry = a.Industry
			f.Country = a.Country
			f.Website = a.Website
			f.Employees = a.FullTimeEmployees
			f.Summary = a.LongBusinessSummary
		}
		if s := res.SummaryDetail; s != nil {
			f.Currency = s.Currency
			f.MarketCap = s.MarketCap.Raw
			f.TrailingPE = s.TrailingPE.Raw
			f.ForwardPE = s.ForwardPE.Raw
			f.DividendYield = s.DividendYield.Raw
			f.Beta = s.Beta.Raw
			f.FiftyTwoWeekHigh = s.FiftyTwoWeekHigh.Raw
			f.FiftyTwoWeekLow = s.FiftyTwoWeekLow.Raw
		}
		if k := res.DefaultKeyStatistics; k != nil {
			f.EnterpriseValue = k.EnterpriseValue.Raw
			f.PriceToBook = k.PriceToBook.Raw
			f.TrailingEPS = k.TrailingEps.Raw
		}
		if d := res.FinancialData; d != nil {
			f.TotalRevenue = d.TotalRevenue.Raw
			f.GrossMargins = d.GrossMargins.Raw
			f.ReturnOnEquity = d.ReturnOnEquity.Raw
			f.TargetMeanPrice = d.TargetMeanPrice.Raw
			f.RecommendationKey = d.RecommendationKey
		}
		return f, nil
	})
}
