package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainevents "github.com/ghuser/stockledger/services/inventory/domain/events"
)

// Fixture is one item of the demonstration stock.
type Fixture struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// DefaultFixtures is the stock used by SEED_FIXTURES.
var DefaultFixtures = []Fixture{
	{Name: "Mango", Quantity: 67, Price: decimal.RequireFromString("120.00")},
	{Name: "Basmati Rice", Quantity: 8, Price: decimal.RequireFromString("45.50")},
	{Name: "Olive Oil", Quantity: 25, Price: decimal.RequireFromString("89.99")},
	{Name: "Green Tea", Quantity: 5, Price: decimal.RequireFromString("12.75")},
	{Name: "Honey", Quantity: 40, Price: decimal.RequireFromString("32.00")},
}

// Seed adds fixtures to an empty inventory and returns how many were added.
// A non-empty inventory is left alone. Fixtures are all-or-nothing.
func (s *InventoryService) Seed(ctx context.Context, fixtures []Fixture) (int, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Seed")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inv.Count() > 0 {
		return 0, nil
	}

	next := s.newInventory()
	for _, f := range fixtures {
		if _, err := next.Add(f.Name, f.Quantity, f.Price); err != nil {
			err = fmt.Errorf("fixture %q: %w", f.Name, err)
			s.record(ctx, span, domainevents.ActionSeed, uuid.Nil, fmt.Sprintf("%d fixtures", len(fixtures)), err)
			return 0, err
		}
	}

	s.inv = next
	s.record(ctx, span, domainevents.ActionSeed, uuid.Nil, fmt.Sprintf("seeded %d items", len(fixtures)), nil)
	return len(fixtures), s.autosaveLocked(ctx)
}
