package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/tickerdesk/config"
	"github.com/va6996/tickerdesk/tools"
)

func newTestClient(t *testing.T, got *SearchRequest) *Client {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(got))

		results := make([]SearchResult, got.MaxResults)
		for i := range results {
			results[i] = SearchResult{Title: "r", URL: "https://example.com"}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"query":         got.Query,
			"results":       results,
			"response_time": 0.42,
		})
	}))
	t.Cleanup(ts.Close)

	c := NewClient(config.SearchConfig{TavilyAPIKey: "key"})
	c.BaseURL = ts.URL
	return c
}

func TestClient_Search_Defaults(t *testing.T) {
	var got SearchRequest
	c := newTestClient(t, &got)

	resp, err := c.Search(context.Background(), &SearchRequest{Query: "NVDA", MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, "basic", got.SearchDepth)
	assert.Equal(t, DefaultTopic, got.Topic)
}

func TestClient_Search_Validation(t *testing.T) {
	c := NewClient(config.SearchConfig{TavilyAPIKey: "key"})

	_, err := c.Search(context.Background(), nil)
	assert.Error(t, err)
	_, err = c.Search(context.Background(), &SearchRequest{MaxResults: 5})
	assert.ErrorContains(t, err, "query is required")
	_, err = c.Search(context.Background(), &SearchRequest{Query: "q", MaxResults: 0})
	assert.ErrorContains(t, err, "between 1 and 20")
}

func TestSearchTool(t *testing.T) {
	var got SearchRequest
	c := newTestClient(t, &got)
	gk := genkit.Init(context.Background())
	reg := tools.NewRegistry()
	c.RegisterTools(gk, reg)

	out, err := reg.ExecuteTool(context.Background(), ToolSearch,
		map[string]interface{}{"query": "NVDA", "max_results": "3", "topic": "news"})
	require.NoError(t, err)
	assert.Len(t, out.(*SearchResponse).Results, 3)
	assert.Equal(t, "news", got.Topic)

	_, err = reg.ExecuteTool(context.Background(), ToolSearch,
		map[string]interface{}{"query": "NVDA", "max_results": []interface{}{}})
	require.NoError(t, err)
	assert.Equal(t, 5, got.MaxResults)
}
