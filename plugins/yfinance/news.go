package yfinance

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// NewsItem is one story from Yahoo's news feed
type NewsItem struct {
	Title          string    `json:"title"`
	Publisher      string    `json:"publisher"`
	Link           string    `json:"link"`
	PublishedAt    time.Time `json:"published_at"`
	RelatedTickers []string  `json:"related_tickers,omitempty"`
}

type searchResponse struct {
	News []struct {
		UUID                string   `json:"uuid"`
		Title               string   `json:"title"`
		Publisher           string   `json:"publisher"`
		Link                string   `json:"link"`
		ProviderPublishTime int64    `json:"providerPublishTime"`
		RelatedTickers      []string `json:"relatedTickers"`
	} `json:"news"`
}

// GetCompanyNews returns up to count recent stories about symbol
func (c *Client) GetCompanyNews(ctx context.Context, symbol string, count int) ([]NewsItem, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	sym, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("yf:news:%s:%d", sym, count)
	return cached(ctx, c, key, func() ([]NewsItem, error) {
		var resp searchResponse
		query := url.Values{
			"q":           {sym},
			"quotesCount": {"0"},
			"newsCount":   {strconv.Itoa(count)},
		}
		if err := c.get(ctx, "/v1/finance/search", query, &resp); err != nil {
			return nil, fmt.Errorf("failed to get news for %s: %w", sym, err)
		}

		items := make([]NewsItem, 0, len(resp.News))
		for _, n := range resp.News {
			if len(items) == count {
				break
			}
			items = append(items, NewsItem{
				Title:          n.Title,
				Publisher:      n.Publisher,
				Link:           n.Link,
				PublishedAt:    time.Unix(n.ProviderPublishTime, 0).UTC(),
				RelatedTickers: n.RelatedTickers,
			})
		}
		return items, nil
	})
}
