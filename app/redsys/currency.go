package redsys

import (
	"regexp"
	"strings"
)

var numericCurrency = regexp.MustCompile(`^[0-9]{3}$`)

var currencyCodes = map[string]string{
	"EUR": "978",
	"USD": "840",
	"GBP": "826",
	"JPY": "392",
	"CHF": "756",
	"CAD": "124",
	"AUD": "036",
	"SEK": "752",
	"NOK": "578",
	"DKK": "208",
	"PLN": "985",
	"CZK": "203",
	"HUF": "348",
	"RON": "946",
	"MXN": "484",
	"ARS": "032",
	"BRL": "986",
	"CLP": "152",
	"COP": "170",
	"PEN": "604",
	"CNY": "156",
	"MAD": "504",
}

// NumericCurrency resolves an ISO 4217 code, alphabetic or numeric, to the
// three digit form the gateway expects.
func NumericCurrency(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if numericCurrency.MatchString(code) {
		return code, true
	}
	numeric, ok := currencyCodes[code]
	return numeric, ok
}
