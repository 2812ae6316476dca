package tavily

import (
	"context"

	"github.com/firebase/genkit/go/genkit"
	"github.com/invopop/jsonschema"
	"github.com/va6996/tickerdesk/log"
	"github.com/va6996/tickerdesk/tools"
)

// ToolSearch is the registered tool name
const ToolSearch = "tavily_search"

var _ tools.ToolPlugin = (*Client)(nil)

// SearchInput is what the model sends; max_results is coerced before use
type SearchInput struct {
	Query      string `json:"query" description:"The search query to execute"`
	MaxResults any    `json:"max_results,omitempty" description:"Maximum number of results (integer 1-20, default 5)"`
	Topic      string `json:"topic,omitempty" description:"Search category: general, news, or finance (default: finance)"`
	TimeRange  string `json:"time_range,omitempty" description:"Time range: day, week, month, or year"`
}

func (SearchInput) JSONSchemaExtend(s *jsonschema.Schema) {
	tools.SetCountProperty(s, "max_results", `Maximum number of results as digits from "1" to "20" (default 5)`)
}

// RegisterTools registers the Tavily search tool
func (c *Client) RegisterTools(gk *genkit.Genkit, registry *tools.Registry) {
	if gk == nil || registry == nil {
		log.Warn(context.Background(), "[Tavily] Cannot register tools: genkit or registry is nil")
		return
	}

	tools.Define(gk, registry, ToolSearch,
		"Searches the web for current information using Tavily. Useful for recent financial news and market sentiment. Arguments: query (string, required), max_results (a number from 1 to 20 as a string such as '5', optional, default 5), topic (string: general/news/finance, optional), time_range (string: day/week/month/year, optional).",
		c.searchTool)

	log.Info(context.Background(), "[Tavily] Registered tool: "+ToolSearch)
}

func (c *Client) searchTool(ctx context.Context, input *SearchInput) (*SearchResponse, error) {
	if input == nil {
		input = &SearchInput{}
	}
	resp, err := tools.NormalizeAndFetch(ctx, input.Query, input.MaxResults,
		func(ctx context.Context, query string, maxResults int) (*SearchResponse, error) {
			return c.Search(ctx, &SearchRequest{
				Query:      query,
				MaxResults: maxResults,
				Topic:      input.Topic,
				TimeRange:  input.TimeRange,
			})
		})
	if err != nil {
		log.Errorf(ctx, "[Tavily] SearchTool failed: %v", err)
		return nil, err
	}
	return resp, nil
}
