package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a single stocked product. Identity, name, price and creation time
// are fixed at construction; quantity changes only through
// Inventory.UpdateQuantity.
type Item struct {
	id        uuid.UUID
	name      ItemName
	quantity  int
	unitPrice Price
	dateAdded time.Time
}

// ID returns the item's unique identifier.
func (i *Item) ID() uuid.UUID { return i.id }

// Name returns the item's trimmed name.
func (i *Item) Name() ItemName { return i.name }

// Quantity returns the number of units in stock.
func (i *Item) Quantity() int { return i.quantity }

// UnitPrice returns the price of a single unit.
func (i *Item) UnitPrice() Price { return i.unitPrice }

// DateAdded returns when the item was created.
func (i *Item) DateAdded() time.Time { return i.dateAdded }

// TotalValue returns quantity * unit price, computed on every call.
func (i *Item) TotalValue() decimal.Decimal {
	return i.unitPrice.Decimal().Mul(decimal.NewFromInt(int64(i.quantity)))
}

// IsLowStock reports whether the quantity is at or below threshold.
func (i *Item) IsLowStock(threshold int) bool {
	return i.quantity <= threshold
}
