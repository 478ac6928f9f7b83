package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
)

// priceScale is the number of fractional digits a unit price may carry.
const priceScale = 2

var (
	// MinPrice is the lowest accepted unit price.
	MinPrice = decimal.New(1, -priceScale)
	// MaxPrice is the highest accepted unit price.
	MaxPrice = decimal.RequireFromString("999999.99")
)

// Price is a value object holding a validated unit price in major currency units.
type Price struct {
	value decimal.Decimal
}

// NewPrice validates d against MinPrice..MaxPrice and cent precision.
func NewPrice(d decimal.Decimal) (Price, error) {
	if d.LessThan(MinPrice) {
		return Price{}, fmt.Errorf("%w: price must be at least %s (got %s)", itemdomain.ErrInvalidPrice, MinPrice.StringFixed(priceScale), d.String())
	}
	if d.GreaterThan(MaxPrice) {
		return Price{}, fmt.Errorf("%w: price must not exceed %s (got %s)", itemdomain.ErrInvalidPrice, MaxPrice.StringFixed(priceScale), d.String())
	}
	if !d.Equal(d.Round(priceScale)) {
		return Price{}, fmt.Errorf("%w: price must have at most %d decimal places (got %s)", itemdomain.ErrInvalidPrice, priceScale, d.String())
	}
	return Price{value: d.Round(priceScale)}, nil
}

// ParsePrice parses a decimal string such as "120.00" into a Price.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Price{}, fmt.Errorf("%w: %q is not a number", itemdomain.ErrInvalidPrice, s)
	}
	return NewPrice(d)
}

// Decimal returns the price as a decimal.
func (p Price) Decimal() decimal.Decimal {
	return p.value
}

// String returns the price with exactly two fractional digits.
func (p Price) String() string {
	return p.value.StringFixed(priceScale)
}
