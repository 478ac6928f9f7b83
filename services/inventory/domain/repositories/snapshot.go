package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRecord is the persisted form of an Item. TotalValue is never stored.
type ItemRecord struct {
	ID        uuid.UUID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	DateAdded time.Time
}

// SnapshotRepository is the persistence interface for whole-inventory snapshots.
// The domain layer owns this interface; infrastructure implements it.
type SnapshotRepository interface {
	// Load returns the records in stored order. A missing snapshot yields
	// (nil, nil); a structurally broken one returns ErrCorruptSnapshot.
	Load(ctx context.Context) ([]ItemRecord, error)

	// Save replaces the stored snapshot with records.
	Save(ctx context.Context, records []ItemRecord) error
}
