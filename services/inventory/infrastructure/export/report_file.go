// Package export writes generated inventory reports to durable storage.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ghuser/stockledger/services/inventory/domain/models"
)

// FileName returns the report file name for a report generated at t,
// e.g. inventory_report_20250115_120000.json.
func FileName(t time.Time, ext string) string {
	return fmt.Sprintf("inventory_report_%s.%s", t.Format("20060102_150405"), ext)
}

type reportDoc struct {
	GeneratedAt   time.Time     `json:"generatedAt"`
	Currency      string        `json:"currency"`
	TotalProducts int           `json:"totalProducts"`
	TotalUnits    int           `json:"totalUnits"`
	TotalValue    string        `json:"totalValue"`
	LowStockCount int           `json:"lowStockCount"`
	Items         []reportEntry `json:"items"`
}

type reportEntry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	UnitPrice  string    `json:"unitPrice"`
	TotalValue string    `json:"totalValue"`
	DateAdded  time.Time `json:"dateAdded"`
	LowStock   bool      `json:"lowStock"`
}

func toDoc(r *models.Report, currency string) reportDoc {
	doc := reportDoc{
		GeneratedAt:   r.GeneratedAt,
		Currency:      currency,
		TotalProducts: r.TotalProducts,
		TotalUnits:    r.TotalUnits,
		TotalValue:    r.TotalValue.StringFixed(2),
		LowStockCount: r.LowStockCount,
		Items:         make([]reportEntry, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		doc.Items = append(doc.Items, reportEntry{
			ID:         l.ID.String(),
			Name:       l.Name,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice.StringFixed(2),
			TotalValue: l.TotalValue.StringFixed(2),
			DateAdded:  l.DateAdded,
			LowStock:   l.LowStock,
		})
	}
	return doc
}

// WriteJSON writes r into dir and returns the path of the created file.
func WriteJSON(dir string, r *models.Report, currency string) (string, error) {
	data, err := json.MarshalIndent(toDoc(r, currency), "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: encode report: %w", err)
	}
	return write(dir, FileName(r.GeneratedAt, "json"), append(data, '\n'))
}

// WriteMarkdown writes the Markdown rendering of r into dir and returns the
// path of the created file.
func WriteMarkdown(dir string, r *models.Report, currency string) (string, error) {
	return write(dir, FileName(r.GeneratedAt, "md"), []byte(Markdown(r, currency)))
}

func write(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}
