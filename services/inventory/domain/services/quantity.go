// Package services contains stateless domain services for the inventory
// bounded context. They operate purely on domain types.
package services

import (
	"fmt"
	"strings"

	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
	"github.com/ghuser/stockledger/services/inventory/domain/models"
)

// AdjustMode selects how an amount is applied to an item's current quantity.
type AdjustMode string

const (
	AdjustSet      AdjustMode = "set"
	AdjustAdd      AdjustMode = "add"
	AdjustSubtract AdjustMode = "subtract"
)

// ParseAdjustMode accepts the mode names case-insensitively, plus the
// single-letter and numeric shortcuts shown by the interactive menu.
func ParseAdjustMode(s string) (AdjustMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "set", "s", "1":
		return AdjustSet, nil
	case "add", "a", "+", "2":
		return AdjustAdd, nil
	case "subtract", "sub", "-", "3":
		return AdjustSubtract, nil
	}
	return "", fmt.Errorf("%w: unknown adjust mode %q", itemdomain.ErrValidation, s)
}

// ResolveQuantity computes the quantity that results from applying amount to
// current under mode. Deltas must not be negative, and the result must lie
// within limits; a subtraction that would go below zero is rejected rather
// than clamped.
func ResolveQuantity(current int, mode AdjustMode, amount int, limits models.Limits) (int, error) {
	var next int
	switch mode {
	case AdjustSet:
		next = amount
	case AdjustAdd, AdjustSubtract:
		if amount < 0 {
			return current, fmt.Errorf("%w: %s amount must not be negative (got %d)", itemdomain.ErrInvalidQuantity, mode, amount)
		}
		if mode == AdjustAdd {
			next = current + amount
		} else {
			next = current - amount
		}
	default:
		return current, fmt.Errorf("%w: unknown adjust mode %q", itemdomain.ErrValidation, mode)
	}

	if next < 0 {
		return current, fmt.Errorf("%w: cannot subtract %d from %d", itemdomain.ErrInvalidQuantity, amount, current)
	}
	if err := limits.CheckQuantity(next); err != nil {
		return current, err
	}
	return next, nil
}
