package core

import (
	"context"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/tickerdesk/log"
	"github.com/va6996/tickerdesk/tools"
)

// RegisterTools registers the date and currency tools
func (c *Client) RegisterTools(gk *genkit.Genkit, registry *tools.Registry) {
	if gk == nil || registry == nil {
		log.Warn(context.Background(), "[Core] Cannot register tools: genkit or registry is nil")
		return
	}

	tools.Define(gk, registry, DateToolName, c.DateTool.Description(), c.DateTool.Execute)
	tools.Define(gk, registry, CurrencyToolName,
		"Returns the currency code for a given country code (ISO 3166-1 alpha-2). Use it to label prices of foreign listings.",
		func(ctx context.Context, input *CurrencyInput) (*CurrencyOutput, error) {
			code := ""
			if input != nil {
				code = input.CountryCode
			}
			return &CurrencyOutput{CountryCode: code, Currency: GetCurrencyForCountry(code)}, nil
		})
}
