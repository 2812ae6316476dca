package agents

import (
	"github.com/va6996/tickerdesk/plugins/core"
	"github.com/va6996/tickerdesk/plugins/nager"
	"github.com/va6996/tickerdesk/plugins/yfinance"
)

const (
	WebSearchAgentName = "Web Search Agent"
	FinanceAgentName   = "Finance AI Agent"
)

// WebSearchDefinition is the agent for broad, up-to-date information.
// searchTool is the name of whichever web search tool is registered.
func WebSearchDefinition(searchTool string) Definition {
	return Definition{
		Name:         WebSearchAgentName,
		Role:         "Search the web for the latest financial news and market sentiment.",
		Instructions: []string{"Provide concise summaries and always cite your sources."},
		Tools:        []string{searchTool, core.DateToolName},
	}
}

// FinanceDefinition is the agent for structured market data
func FinanceDefinition() Definition {
	return Definition{
		Name:         FinanceAgentName,
		Role:         "Retrieve and display structured financial data for a given stock ticker.",
		Instructions: []string{"Use Markdown tables to display all financial data clearly."},
		Tools: []string{
			yfinance.ToolStockPrice,
			yfinance.ToolRecommendations,
			yfinance.ToolFundamentals,
			yfinance.ToolCompanyNews,
			nager.ToolMarketDay,
			nager.ToolHolidays,
			core.DateToolName,
			core.CurrencyToolName,
		},
	}
}
