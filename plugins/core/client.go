package core

import (
	"time"

	"github.com/va6996/tickerdesk/tools"
)

// Tool names registered by the core plugin
var ToolNames = []string{DateToolName, CurrencyToolName}

var _ tools.ToolPlugin = (*Client)(nil)

// Client manages the core set of tools
type Client struct {
	DateTool *DateTool
}

// NewClient initializes the core plugin
func NewClient() *Client {
	return &Client{
		DateTool: &DateTool{Now: time.Now},
	}
}
