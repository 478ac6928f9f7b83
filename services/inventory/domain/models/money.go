package models

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount in the given ISO 4217 currency, for example
// "$8,040.00" for USD. Unknown codes fall back to a plain two-digit number.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(priceScale)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// KnownCurrency reports whether code is an ISO 4217 code known to go-money.
func KnownCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}
