package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
)

// Factory is the only constructor of Items. Every failure wraps
// ErrValidation together with the specific kind.
type Factory struct {
	limits Limits
	ids    *IDRegistry
	now    func() time.Time
}

// NewFactory returns a Factory enforcing limits and drawing ids from ids.
func NewFactory(limits Limits, ids *IDRegistry) *Factory {
	return &Factory{
		limits: limits,
		ids:    ids,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Limits returns the quantity bounds enforced by the factory.
func (f *Factory) Limits() Limits {
	return f.limits
}

// Create validates name, quantity and price and returns a new Item with a
// fresh id and the current time.
func (f *Factory) Create(name string, quantity int, price decimal.Decimal) (*Item, error) {
	itemName, p, err := f.validate(name, quantity, price)
	if err != nil {
		return nil, err
	}

	id, err := f.ids.Next()
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	return &Item{
		id:        id,
		name:      itemName,
		quantity:  quantity,
		unitPrice: p,
		dateAdded: f.now(),
	}, nil
}

// Restore rebuilds an Item from persisted fields, applying the same rules as
// Create and additionally rejecting ids already issued in this run.
func (f *Factory) Restore(id uuid.UUID, name string, quantity int, price decimal.Decimal, dateAdded time.Time) (*Item, error) {
	itemName, p, err := f.validate(name, quantity, price)
	if err != nil {
		return nil, err
	}
	if dateAdded.IsZero() {
		return nil, fmt.Errorf("%w: date added must be set", itemdomain.ErrValidation)
	}
	if err := f.ids.Reserve(id); err != nil {
		return nil, err
	}

	return &Item{
		id:        id,
		name:      itemName,
		quantity:  quantity,
		unitPrice: p,
		dateAdded: dateAdded.UTC(),
	}, nil
}

func (f *Factory) validate(name string, quantity int, price decimal.Decimal) (ItemName, Price, error) {
	itemName, err := NewItemName(name)
	if err != nil {
		return "", Price{}, fmt.Errorf("%w: %w", itemdomain.ErrValidation, err)
	}
	if err := f.limits.CheckQuantity(quantity); err != nil {
		return "", Price{}, fmt.Errorf("%w: %w", itemdomain.ErrValidation, err)
	}
	p, err := NewPrice(price)
	if err != nil {
		return "", Price{}, fmt.Errorf("%w: %w", itemdomain.ErrValidation, err)
	}
	return itemName, p, nil
}
