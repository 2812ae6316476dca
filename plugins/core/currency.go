package core

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// CurrencyToolName is the registered tool name
const CurrencyToolName = "core_get_currency"

type CurrencyInput struct {
	CountryCode string `json:"country_code" description:"ISO 3166-1 alpha-2 country code of the exchange or company"`
}

type CurrencyOutput struct {
	CountryCode string `json:"country_code"`
	Currency    string `json:"currency"`
}

// GetCurrencyForCountry returns the currency code for a given country code (ISO 3166-1 alpha-2).
// Defaults to "USD" if the country is not found or empty.
func GetCurrencyForCountry(countryCode string) string {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if code == "" {
		return "USD"
	}

	region, err := language.ParseRegion(code)
	if err != nil {
		return "USD"
	}

	cur, ok := currency.FromRegion(region)
	if !ok {
		return "USD"
	}

	return cur.String()
}
