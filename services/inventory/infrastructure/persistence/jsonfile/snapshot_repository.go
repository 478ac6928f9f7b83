package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/pkg/validator"
	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
	"github.com/ghuser/stockledger/services/inventory/domain/repositories"
)

// SnapshotVersion is the only snapshot schema this repository reads and writes.
const SnapshotVersion = 1

type snapshotFile struct {
	Version int          `json:"version"`
	Items   []itemRecord `json:"items"`
}

type itemRecord struct {
	ID        string    `json:"id"        validate:"required,uuid"`
	Name      string    `json:"name"      validate:"required"`
	Quantity  *int      `json:"quantity"  validate:"required"`
	UnitPrice string    `json:"unitPrice" validate:"required,numeric"`
	DateAdded time.Time `json:"dateAdded" validate:"required"`
}

// SnapshotRepository implements repositories.SnapshotRepository as a single
// JSON document on the local filesystem.
type SnapshotRepository struct {
	path string
}

var _ repositories.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository returns a repository that reads and writes path.
func NewSnapshotRepository(path string) *SnapshotRepository {
	return &SnapshotRepository{path: path}
}

// Path returns the snapshot file location.
func (r *SnapshotRepository) Path() string {
	return r.path
}

// Load reads the snapshot. A missing file is not an error and yields no
// records. Every malformed record is reported; if any record is malformed
// no records are returned.
func (r *SnapshotRepository) Load(ctx context.Context) ([]repositories.ItemRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", itemdomain.ErrCorruptSnapshot, r.path, err)
	}
	if file.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %s: unsupported version %d", itemdomain.ErrCorruptSnapshot, r.path, file.Version)
	}

	records := make([]repositories.ItemRecord, 0, len(file.Items))
	var errs []error
	for i, raw := range file.Items {
		rec, err := raw.toDomain()
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i+1, err))
			continue
		}
		records = append(records, rec)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s: %w", itemdomain.ErrCorruptSnapshot, r.path, errors.Join(errs...))
	}
	return records, nil
}

// Save writes records to a temporary file in the same directory and renames
// it over the snapshot, so readers never observe a partial document.
func (r *SnapshotRepository) Save(ctx context.Context, records []repositories.ItemRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file := snapshotFile{Version: SnapshotVersion, Items: make([]itemRecord, 0, len(records))}
	for _, rec := range records {
		file.Items = append(file.Items, fromDomain(rec))
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (rec itemRecord) toDomain() (repositories.ItemRecord, error) {
	if err := validator.Validate(&rec); err != nil {
		return repositories.ItemRecord{}, fmt.Errorf("%w: %s", itemdomain.ErrValidation, validator.Summary(err))
	}
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return repositories.ItemRecord{}, fmt.Errorf("%w: id: %w", itemdomain.ErrValidation, err)
	}
	price, err := decimal.NewFromString(rec.UnitPrice)
	if err != nil {
		return repositories.ItemRecord{}, fmt.Errorf("%w: unitPrice: %w", itemdomain.ErrInvalidPrice, err)
	}
	return repositories.ItemRecord{
		ID:        id,
		Name:      rec.Name,
		Quantity:  *rec.Quantity,
		UnitPrice: price,
		DateAdded: rec.DateAdded,
	}, nil
}

func fromDomain(rec repositories.ItemRecord) itemRecord {
	qty := rec.Quantity
	return itemRecord{
		ID:        rec.ID.String(),
		Name:      rec.Name,
		Quantity:  &qty,
		UnitPrice: rec.UnitPrice.StringFixed(2),
		DateAdded: rec.DateAdded,
	}
}
