package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Report is a frozen view of the inventory at GeneratedAt.
type Report struct {
	GeneratedAt   time.Time
	TotalProducts int
	TotalUnits    int
	TotalValue    decimal.Decimal
	LowStockCount int
	Lines         []ReportLine // sorted by name ascending
}

// ReportLine is the per-item detail of a Report.
type ReportLine struct {
	ID         uuid.UUID
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalValue decimal.Decimal
	DateAdded  time.Time
	LowStock   bool
}
