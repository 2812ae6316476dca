package duckduckgo

import (
	"context"

	"github.com/firebase/genkit/go/genkit"
	"github.com/invopop/jsonschema"
	"github.com/va6996/tickerdesk/log"
	"github.com/va6996/tickerdesk/tools"
)

// ToolSearch is the registered tool name
const ToolSearch = "duckduckgo_search"

var _ tools.ToolPlugin = (*Client)(nil)

type SearchInput struct {
	Query      string `json:"query" description:"The search query to execute"`
	MaxResults any    `json:"max_results,omitempty" description:"Maximum number of results (integer, default 5)"`
}

func (SearchInput) JSONSchemaExtend(s *jsonschema.Schema) {
	tools.SetCountProperty(s, "max_results", `Maximum number of results as digits, e.g. "5" (default 5)`)
}

type SearchOutput struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// RegisterTools registers the DuckDuckGo search tool
func (c *Client) RegisterTools(gk *genkit.Genkit, registry *tools.Registry) {
	if gk == nil || registry == nil {
		log.Warn(context.Background(), "[DuckDuckGo] Cannot register tools: genkit or registry is nil")
		return
	}

	tools.Define(gk, registry, ToolSearch,
		"Searches the web with DuckDuckGo for current information, news and market sentiment. Arguments: query (string, required), max_results (a number as a string such as '5', optional, default 5). Results include the source URL to cite.",
		c.searchTool)

	log.Info(context.Background(), "[DuckDuckGo] Registered tool: "+ToolSearch)
}

func (c *Client) searchTool(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if input == nil {
		input = &SearchInput{}
	}
	results, err := tools.NormalizeAndFetch(ctx, input.Query, input.MaxResults, c.Search)
	if err != nil {
		log.Errorf(ctx, "[DuckDuckGo] SearchTool failed: %v", err)
		return nil, err
	}
	return &SearchOutput{Query: input.Query, Results: results}, nil
}
