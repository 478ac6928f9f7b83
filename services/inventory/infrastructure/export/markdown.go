package export

import (
	"fmt"
	"strings"

	"github.com/ghuser/stockledger/services/inventory/domain/models"
)

// Markdown renders r as a summary list followed by a detail table.
func Markdown(r *models.Report, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Inventory Report\n\n")
	fmt.Fprintf(&b, "Generated %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **Products:** %d\n", r.TotalProducts)
	fmt.Fprintf(&b, "- **Units:** %d\n", r.TotalUnits)
	fmt.Fprintf(&b, "- **Total value:** %s\n", models.FormatMoney(r.TotalValue, currency))
	fmt.Fprintf(&b, "- **Low stock:** %d\n\n", r.LowStockCount)

	if len(r.Lines) == 0 {
		fmt.Fprintln(&b, "_No items in inventory._")
		return b.String()
	}

	fmt.Fprintln(&b, "| Name | Quantity | Unit Price | Total Value | Added | Low |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|:---|:---:|")
	for _, l := range r.Lines {
		low := " "
		if l.LowStock {
			low = "X"
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
			EscapeCell(l.Name),
			l.Quantity,
			models.FormatMoney(l.UnitPrice, currency),
			models.FormatMoney(l.TotalValue, currency),
			l.DateAdded.Format("2006-01-02"),
			low,
		)
	}
	return b.String()
}

// EscapeCell makes s safe to place inside a Markdown table cell.
func EscapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
