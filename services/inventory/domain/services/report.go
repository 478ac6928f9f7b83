package services

import (
	"slices"
	"strings"
	"time"

	"github.com/ghuser/stockledger/services/inventory/domain/models"
)

// GenerateReport builds a Report from the current inventory state. Lines are
// sorted by name using byte-wise comparison, which is a total order because
// live names are unique. The inventory is not modified.
func GenerateReport(inv *models.Inventory, threshold int, now time.Time) *models.Report {
	items := inv.Items()
	lines := make([]models.ReportLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.ReportLine{
			ID:         item.ID(),
			Name:       item.Name().String(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Decimal(),
			TotalValue: item.TotalValue(),
			DateAdded:  item.DateAdded(),
			LowStock:   item.IsLowStock(threshold),
		})
	}
	slices.SortFunc(lines, func(a, b models.ReportLine) int {
		return strings.Compare(a.Name, b.Name)
	})

	return &models.Report{
		GeneratedAt:   now,
		TotalProducts: inv.Count(),
		TotalUnits:    inv.TotalUnits(),
		TotalValue:    inv.TotalValue(),
		LowStockCount: inv.LowStockCount(threshold),
		Lines:         lines,
	}
}
