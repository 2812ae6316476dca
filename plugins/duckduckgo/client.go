package duckduckgo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/va6996/tickerdesk/config"
	"github.com/va6996/tickerdesk/log"
	"golang.org/x/net/html"
)

const (
	BaseURL   = "https://html.duckduckgo.com/html/"
	userAgent = "Mozilla/5.0 (compatible; tickerdesk/1.0)"
)

// ErrInvalidMaxResults is returned for non-positive result limits
var ErrInvalidMaxResults = errors.New("max_results must be positive")

// Client scrapes DuckDuckGo's HTML endpoint
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new DuckDuckGo client
func NewClient(cfg config.SearchConfig) *Client {
	baseURL := cfg.DuckDuckGoURL
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
	}
}

// SearchResult is one organic web result
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Search returns up to maxResults results for query
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if maxResults < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxResults, maxResults)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	u := c.BaseURL + "?" + url.Values{"q": {query}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	log.Debugf(ctx, "[DuckDuckGo] Sending search request: query=%s, max_results=%d", query, maxResults)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %s", resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := parseResults(doc, maxResults)
	log.Debugf(ctx, "[DuckDuckGo] Search completed successfully: %d results found", len(results))
	return results, nil
}

// parseResults walks the result page collecting result__a links and the
// result__snippet that follows each of them.
func parseResults(doc *html.Node, limit int) []SearchResult {
	results := make([]SearchResult, 0, limit)

	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				if len(results) == limit {
					return false
				}
				results = append(results, SearchResult{
					Title: textContent(n),
					URL:   resolveLink(attr(n, "href")),
				})
				return true
			case hasClass(n, "result__snippet"):
				if len(results) > 0 && results[len(results)-1].Snippet == "" {
					results[len(results)-1].Snippet = textContent(n)
				}
				return true
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if !walk(child) {
				return false
			}
		}
		return true
	}
	walk(doc)
	return results
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// resolveLink unwraps DuckDuckGo's //duckduckgo.com/l/?uddg=<target> redirects
func resolveLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}
