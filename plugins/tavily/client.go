package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/va6996/tickerdesk/config"
	"github.com/va6996/tickerdesk/log"
)

const (
	BaseURL = "https://api.tavily.com"

	// DefaultTopic biases results toward market coverage
	DefaultTopic = "finance"
)

// Client is the Tavily API client
type Client struct {
	BaseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Tavily client
func NewClient(cfg config.SearchConfig) *Client {
	if cfg.TavilyAPIKey == "" {
		log.Warn(context.Background(), "Tavily API key is empty, Tavily tools will not work properly")
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	return &Client{
		BaseURL: BaseURL,
		apiKey:  cfg.TavilyAPIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

// SearchRequest represents a Tavily search request
type SearchRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	Topic          string   `json:"topic,omitempty"`
	TimeRange      string   `json:"time_range,omitempty"`
	IncludeAnswer  bool     `json:"include_answer,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
}

// SearchResult represents a single search result
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchResponse represents the Tavily search response
type SearchResponse struct {
	Query        string         `json:"query"`
	Answer       string         `json:"answer,omitempty"`
	Results      []SearchResult `json:"results"`
	ResponseTime json.Number    `json:"response_time"`
	RequestID    string         `json:"request_id"`
}

// Search performs a Tavily search
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}
	if req.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if req.MaxResults < 1 || req.MaxResults > 20 {
		return nil, fmt.Errorf("max_results must be between 1 and 20, got %d", req.MaxResults)
	}

	if req.SearchDepth == "" {
		req.SearchDepth = "basic"
	}
	if req.Topic == "" {
		req.Topic = DefaultTopic
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/search", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Debugf(ctx, "[Tavily] Sending search request: query=%s, topic=%s, max_results=%d", req.Query, req.Topic, req.MaxResults)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %s", resp.Status)
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Debugf(ctx, "[Tavily] Search completed successfully: %d results found", len(searchResp.Results))

	return &searchResp, nil
}
