package models

import (
	"fmt"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
)

const maxIDAttempts = 8

// IDRegistry issues item ids and remembers every id issued or restored in the
// run, so an id is never handed out twice even if the generator repeats.
type IDRegistry struct {
	issued map[uuid.UUID]struct{}
	newID  func() (uuid.UUID, error)
}

// NewIDRegistry returns a registry backed by time-ordered UUIDv7 ids.
func NewIDRegistry() *IDRegistry {
	return &IDRegistry{
		issued: make(map[uuid.UUID]struct{}),
		newID:  uuid.NewV7,
	}
}

// Next returns a fresh id that has not been issued before.
func (r *IDRegistry) Next() (uuid.UUID, error) {
	for range maxIDAttempts {
		id, err := r.newID()
		if err != nil {
			return uuid.Nil, fmt.Errorf("generate id: %w", err)
		}
		if _, seen := r.issued[id]; seen {
			continue
		}
		r.issued[id] = struct{}{}
		return id, nil
	}
	return uuid.Nil, fmt.Errorf("generate id: %w after %d attempts", itemdomain.ErrDuplicateID, maxIDAttempts)
}

// Reserve records an externally supplied id, failing if it was already issued.
func (r *IDRegistry) Reserve(id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: id must be set", itemdomain.ErrValidation)
	}
	if _, seen := r.issued[id]; seen {
		return fmt.Errorf("%w: %s", itemdomain.ErrDuplicateID, id)
	}
	r.issued[id] = struct{}{}
	return nil
}

// Absorb marks every id known to other as issued in r.
func (r *IDRegistry) Absorb(other *IDRegistry) {
	for id := range other.issued {
		r.issued[id] = struct{}{}
	}
}
