package pricing

import "github.com/shopspring/decimal"

// Canonical amounts are always USD. Conversion is display-only, via a static
// multiplier; submitted and stored amounts never convert.

type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
)

var usdToEUR = decimal.RequireFromString("0.92")

// Display converts a canonical USD amount into the requested display
// currency, rounded to cents. Unknown currencies fall back to USD.
func Display(usd decimal.Decimal, c Currency) decimal.Decimal {
	if c == EUR {
		return usd.Mul(usdToEUR).Round(2)
	}
	return usd.Round(2)
}
