package domain

import "github.com/shopspring/decimal"

// FormatPrice renders an amount as a display currency string, e.g. "$19.90".
func FormatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
