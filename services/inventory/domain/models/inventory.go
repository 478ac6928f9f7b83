package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
)

// Inventory is the ordered collection of live Items. Insertion order is the
// 1-based position exposed by Find. Inventory is not safe for concurrent use.
type Inventory struct {
	factory *Factory
	items   []*Item
}

// NewInventory returns an empty Inventory that creates items with factory.
func NewInventory(factory *Factory) *Inventory {
	return &Inventory{factory: factory}
}

// Limits returns the quantity bounds applied to every item.
func (inv *Inventory) Limits() Limits {
	return inv.factory.Limits()
}

// Add creates an item and appends it. It fails with ErrDuplicateName when a
// live item already has the same name ignoring case.
func (inv *Inventory) Add(name string, quantity int, price decimal.Decimal) (*Item, error) {
	if existing := inv.byName(name); existing != nil {
		return nil, fmt.Errorf("%w: %q", itemdomain.ErrDuplicateName, existing.Name())
	}
	item, err := inv.factory.Create(name, quantity, price)
	if err != nil {
		return nil, err
	}
	inv.items = append(inv.items, item)
	return item, nil
}

// Restore appends an item rebuilt from persisted fields, applying the same
// uniqueness and bounds rules as Add.
func (inv *Inventory) Restore(id uuid.UUID, name string, quantity int, price decimal.Decimal, dateAdded time.Time) (*Item, error) {
	if existing := inv.byName(name); existing != nil {
		return nil, fmt.Errorf("%w: %q", itemdomain.ErrDuplicateName, existing.Name())
	}
	item, err := inv.factory.Restore(id, name, quantity, price, dateAdded)
	if err != nil {
		return nil, err
	}
	inv.items = append(inv.items, item)
	return item, nil
}

// Find resolves term to an item. A term that parses as an integer within
// 1..Count selects by position; anything else is an exact, case-insensitive
// name match.
func (inv *Inventory) Find(term string) (*Item, error) {
	if pos, err := strconv.Atoi(strings.TrimSpace(term)); err == nil && pos >= 1 && pos <= len(inv.items) {
		return inv.items[pos-1], nil
	}
	if item := inv.byName(term); item != nil {
		return item, nil
	}
	return nil, fmt.Errorf("%w: %q", itemdomain.ErrItemNotFound, strings.TrimSpace(term))
}

// FindByID returns the live item with id. Unlike Find it never interprets
// its argument as a position.
func (inv *Inventory) FindByID(id uuid.UUID) (*Item, error) {
	for _, item := range inv.items {
		if item.id == id {
			return item, nil
		}
	}
	return nil, fmt.Errorf("%w: id %s", itemdomain.ErrItemNotFound, id)
}

// Adopt makes factory the source of future items. Live items are kept.
func (inv *Inventory) Adopt(factory *Factory) {
	inv.factory = factory
}

// Search returns, in insertion order, every item whose name contains term
// ignoring case. An empty term matches everything.
func (inv *Inventory) Search(term string) []*Item {
	var out []*Item
	for _, item := range inv.items {
		if item.name.Contains(term) {
			out = append(out, item)
		}
	}
	return out
}

// Position returns the current 1-based position of item, or 0 if it is not live.
func (inv *Inventory) Position(item *Item) int {
	return inv.indexOf(item) + 1
}

// UpdateQuantity replaces the stored quantity of a live item. The stored
// value is left untouched on failure.
func (inv *Inventory) UpdateQuantity(item *Item, quantity int) error {
	idx := inv.indexOf(item)
	if idx < 0 {
		return fmt.Errorf("%w: %q", itemdomain.ErrItemNotFound, itemName(item))
	}
	if err := inv.Limits().CheckQuantity(quantity); err != nil {
		return err
	}
	inv.items[idx].quantity = quantity
	return nil
}

// Remove deletes a live item. Items after it shift one position down.
func (inv *Inventory) Remove(item *Item) error {
	idx := inv.indexOf(item)
	if idx < 0 {
		return fmt.Errorf("%w: %q", itemdomain.ErrItemNotFound, itemName(item))
	}
	inv.items = append(inv.items[:idx], inv.items[idx+1:]...)
	return nil
}

// Items returns the live items in insertion order. The slice is a copy.
func (inv *Inventory) Items() []*Item {
	out := make([]*Item, len(inv.items))
	copy(out, inv.items)
	return out
}

func (inv *Inventory) byName(name string) *Item {
	for _, item := range inv.items {
		if item.name.Matches(name) {
			return item
		}
	}
	return nil
}

func (inv *Inventory) indexOf(item *Item) int {
	if item == nil {
		return -1
	}
	for i, it := range inv.items {
		if it.id == item.id {
			return i
		}
	}
	return -1
}

func itemName(item *Item) string {
	if item == nil {
		return ""
	}
	return item.name.String()
}
