package models

import "github.com/shopspring/decimal"

// DefaultLowStockThreshold is the quantity at or below which an item is low on stock.
const DefaultLowStockThreshold = 10

// Stats is a point-in-time summary of an Inventory. The pointer fields are
// nil when the inventory is empty.
type Stats struct {
	Count             int
	TotalUnits        int
	TotalValue        decimal.Decimal
	LowStockThreshold int
	LowStockCount     int
	MostExpensive     *Item
	HighestTotalValue *Item
	LowestStock       *Item
}

// Count returns the number of live items.
func (inv *Inventory) Count() int {
	return len(inv.items)
}

// TotalUnits returns the sum of all quantities.
func (inv *Inventory) TotalUnits() int {
	total := 0
	for _, item := range inv.items {
		total += item.quantity
	}
	return total
}

// TotalValue returns the sum of every item's TotalValue.
func (inv *Inventory) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.items {
		total = total.Add(item.TotalValue())
	}
	return total
}

// LowStockCount returns how many items have quantity <= threshold.
func (inv *Inventory) LowStockCount(threshold int) int {
	n := 0
	for _, item := range inv.items {
		if item.IsLowStock(threshold) {
			n++
		}
	}
	return n
}

// MostExpensive returns the item with the highest unit price. Ties go to the
// earliest inserted item.
func (inv *Inventory) MostExpensive() (*Item, bool) {
	return inv.best(func(a, b *Item) bool {
		return a.unitPrice.Decimal().GreaterThan(b.unitPrice.Decimal())
	})
}

// HighestTotalValue returns the item with the highest quantity * price.
// Ties go to the earliest inserted item.
func (inv *Inventory) HighestTotalValue() (*Item, bool) {
	return inv.best(func(a, b *Item) bool {
		return a.TotalValue().GreaterThan(b.TotalValue())
	})
}

// LowestStock returns the item with the smallest quantity. Ties go to the
// earliest inserted item.
func (inv *Inventory) LowestStock() (*Item, bool) {
	return inv.best(func(a, b *Item) bool {
		return a.quantity < b.quantity
	})
}

// Stats collects every aggregate query into one value.
func (inv *Inventory) Stats(threshold int) Stats {
	s := Stats{
		Count:             inv.Count(),
		TotalUnits:        inv.TotalUnits(),
		TotalValue:        inv.TotalValue(),
		LowStockThreshold: threshold,
		LowStockCount:     inv.LowStockCount(threshold),
	}
	s.MostExpensive, _ = inv.MostExpensive()
	s.HighestTotalValue, _ = inv.HighestTotalValue()
	s.LowestStock, _ = inv.LowestStock()
	return s
}

// best returns the first item for which no later item is strictly better.
func (inv *Inventory) best(better func(a, b *Item) bool) (*Item, bool) {
	if len(inv.items) == 0 {
		return nil, false
	}
	winner := inv.items[0]
	for _, item := range inv.items[1:] {
		if better(item, winner) {
			winner = item
		}
	}
	return winner, true
}
