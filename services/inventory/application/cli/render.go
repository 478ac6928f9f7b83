package cli

import (
	"fmt"
	"strings"

	appsvcs "github.com/ghuser/stockledger/services/inventory/application/services"
	"github.com/ghuser/stockledger/services/inventory/domain/models"
	"github.com/ghuser/stockledger/services/inventory/infrastructure/audit"
	"github.com/ghuser/stockledger/services/inventory/infrastructure/export"
)

// itemsMarkdown renders entries as a table with their current positions.
func itemsMarkdown(entries []appsvcs.Entry, currency string, threshold int) string {
	var b strings.Builder
	if len(entries) == 0 {
		fmt.Fprintln(&b, "_No items found._")
		return b.String()
	}

	fmt.Fprintln(&b, "| # | Name | Quantity | Unit Price | Total Value | Added | Low |")
	fmt.Fprintln(&b, "|---:|:---|---:|---:|---:|:---|:---:|")
	for _, e := range entries {
		low := " "
		if e.Item.IsLowStock(threshold) {
			low = "X"
		}
		fmt.Fprintf(&b, "| %d | %s | %d | %s | %s | %s | %s |\n",
			e.Position,
			export.EscapeCell(e.Item.Name().String()),
			e.Item.Quantity(),
			models.FormatMoney(e.Item.UnitPrice().Decimal(), currency),
			models.FormatMoney(e.Item.TotalValue(), currency),
			e.Item.DateAdded().Local().Format("2006-01-02"),
			low,
		)
	}
	return b.String()
}

// itemMarkdown renders one entry as a definition list.
func itemMarkdown(e appsvcs.Entry, currency string, threshold int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", e.Item.Name())
	fmt.Fprintf(&b, "- **Position:** %d\n", e.Position)
	fmt.Fprintf(&b, "- **ID:** `%s`\n", e.Item.ID())
	fmt.Fprintf(&b, "- **Quantity:** %d", e.Item.Quantity())
	if e.Item.IsLowStock(threshold) {
		fmt.Fprint(&b, " (low stock)")
	}
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "- **Unit price:** %s\n", models.FormatMoney(e.Item.UnitPrice().Decimal(), currency))
	fmt.Fprintf(&b, "- **Total value:** %s\n", models.FormatMoney(e.Item.TotalValue(), currency))
	fmt.Fprintf(&b, "- **Added:** %s\n", e.Item.DateAdded().Local().Format("2006-01-02 15:04:05"))
	return b.String()
}

// statsMarkdown renders the aggregate view.
func statsMarkdown(st models.Stats, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Inventory Statistics\n\n")
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Products | %d |\n", st.Count)
	fmt.Fprintf(&b, "| Units | %d |\n", st.TotalUnits)
	fmt.Fprintf(&b, "| Total value | %s |\n", models.FormatMoney(st.TotalValue, currency))
	fmt.Fprintf(&b, "| Low stock (≤ %d) | %d |\n", st.LowStockThreshold, st.LowStockCount)
	fmt.Fprintf(&b, "| Most expensive | %s |\n", highlight(st.MostExpensive, func(i *models.Item) string {
		return models.FormatMoney(i.UnitPrice().Decimal(), currency)
	}))
	fmt.Fprintf(&b, "| Highest total value | %s |\n", highlight(st.HighestTotalValue, func(i *models.Item) string {
		return models.FormatMoney(i.TotalValue(), currency)
	}))
	fmt.Fprintf(&b, "| Lowest stock | %s |\n", highlight(st.LowestStock, func(i *models.Item) string {
		return fmt.Sprintf("%d units", i.Quantity())
	}))
	return b.String()
}

func highlight(item *models.Item, value func(*models.Item) string) string {
	if item == nil {
		return "none"
	}
	return fmt.Sprintf("%s (%s)", export.EscapeCell(item.Name().String()), value(item))
}

// historyMarkdown renders audit entries, oldest first.
func historyMarkdown(entries []audit.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Audit History\n\n")
	if len(entries) == 0 {
		fmt.Fprintln(&b, "_No audit entries._")
		return b.String()
	}
	fmt.Fprintln(&b, "| Time | Action | Detail |")
	fmt.Fprintln(&b, "|:---|:---|:---|")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Action,
			export.EscapeCell(e.Detail),
		)
	}
	return b.String()
}
