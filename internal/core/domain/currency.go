package domain

import "strings"

// Currency is an ISO 4217 code supported by wallets. All supported
// currencies have two minor-unit digits.
type Currency string

const (
	CurrencyNGN Currency = "NGN"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"

	DefaultCurrency = CurrencyNGN
)

var supportedCurrencies = map[Currency]struct{}{
	CurrencyNGN: {},
	CurrencyUSD: {},
	CurrencyGBP: {},
	CurrencyEUR: {},
}

// ParseCurrency normalizes s and reports whether it is supported.
func ParseCurrency(s string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := supportedCurrencies[c]
	return c, ok
}

func (c Currency) IsSupported() bool {
	_, ok := supportedCurrencies[c]
	return ok
}

func (c Currency) String() string { return string(c) }
