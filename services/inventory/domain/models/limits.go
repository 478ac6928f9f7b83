package models

import (
	"fmt"

	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
)

// DefaultMaxQuantity is the upper quantity bound used when none is configured.
const DefaultMaxQuantity = 10000

// Limits holds the configurable bounds applied to item quantities.
type Limits struct {
	MaxQuantity int
}

// DefaultLimits returns Limits with DefaultMaxQuantity.
func DefaultLimits() Limits {
	return Limits{MaxQuantity: DefaultMaxQuantity}
}

// CheckQuantity returns an error wrapping ErrInvalidQuantity when q is
// outside 0..MaxQuantity.
func (l Limits) CheckQuantity(q int) error {
	if q < 0 {
		return fmt.Errorf("%w: quantity must not be negative (got %d)", itemdomain.ErrInvalidQuantity, q)
	}
	if q > l.MaxQuantity {
		return fmt.Errorf("%w: quantity must not exceed %d (got %d)", itemdomain.ErrInvalidQuantity, l.MaxQuantity, q)
	}
	return nil
}
