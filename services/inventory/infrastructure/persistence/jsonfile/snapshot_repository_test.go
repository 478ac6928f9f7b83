package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
	"github.com/ghuser/stockledger/services/inventory/domain/repositories"
)

func sampleRecords() []repositories.ItemRecord {
	added := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	return []repositories.ItemRecord{
		{ID: uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"), Name: "Mango", Quantity: 67, UnitPrice: decimal.RequireFromString("120"), DateAdded: added},
		{ID: uuid.MustParse("550e8400-e29b-41d4-a716-446655440001"), Name: "Green Tea", Quantity: 0, UnitPrice: decimal.RequireFromString("12.75"), DateAdded: added.Add(time.Minute)},
	}
}

func TestSnapshotRepository_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "inventory.json")
	repo := NewSnapshotRepository(path)
	ctx := context.Background()

	want := sampleRecords()
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Name != want[i].Name || got[i].Quantity != want[i].Quantity {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
		if !got[i].UnitPrice.Equal(want[i].UnitPrice) {
			t.Errorf("record %d price = %s, want %s", i, got[i].UnitPrice, want[i].UnitPrice)
		}
		if !got[i].DateAdded.Equal(want[i].DateAdded) {
			t.Errorf("record %d dateAdded = %v, want %v", i, got[i].DateAdded, want[i].DateAdded)
		}
	}
}

func TestSnapshotRepository_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := NewSnapshotRepository(path).Save(context.Background(), sampleRecords()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	body := string(data)
	for _, want := range []string{`"version": 1`, `"unitPrice": "120.00"`, `"dateAdded"`, `"quantity": 0`} {
		if !strings.Contains(body, want) {
			t.Errorf("snapshot missing %s:\n%s", want, body)
		}
	}
	if strings.Contains(body, "totalValue") {
		t.Errorf("snapshot must not persist totalValue:\n%s", body)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the snapshot file, found %d entries", len(entries))
	}
}

func TestSnapshotRepository_LoadMissingFile(t *testing.T) {
	repo := NewSnapshotRepository(filepath.Join(t.TempDir(), "absent.json"))
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("expected nil error for missing file, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil records, got %v", got)
	}
}

func TestSnapshotRepository_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains []string
	}{
		{"invalid json", `{"version": 1, "items": [`, nil},
		{"wrong version", `{"version": 2, "items": []}`, []string{"unsupported version 2"}},
		{
			"bad records are all reported",
			`{"version": 1, "items": [
				{"id": "550e8400-e29b-41d4-a716-446655440000", "name": "Mango", "quantity": 1, "unitPrice": "1.00", "dateAdded": "2025-01-15T12:00:00Z"},
				{"id": "nope", "name": "Tea", "quantity": 1, "unitPrice": "1.00", "dateAdded": "2025-01-15T12:00:00Z"},
				{"id": "550e8400-e29b-41d4-a716-446655440002", "name": "Rice", "unitPrice": "abc", "dateAdded": "2025-01-15T12:00:00Z"}
			]}`,
			[]string{"record 2", "record 3", "id: Must be a valid UUID", "quantity: This field is required", "unitPrice: Must be a numeric value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "inventory.json")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			got, err := NewSnapshotRepository(path).Load(context.Background())
			if !errors.Is(err, itemdomain.ErrCorruptSnapshot) {
				t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
			}
			if got != nil {
				t.Errorf("expected no records on corrupt snapshot, got %d", len(got))
			}
			for _, want := range tt.contains {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}

func TestSnapshotRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewSnapshotRepository(filepath.Join(t.TempDir(), "inventory.json"))
	if err := repo.Save(ctx, sampleRecords()); !errors.Is(err, context.Canceled) {
		t.Errorf("Save: expected context.Canceled, got %v", err)
	}
	if _, err := repo.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load: expected context.Canceled, got %v", err)
	}
}
