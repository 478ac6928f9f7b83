package services

import (
	"fmt"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
	"github.com/ghuser/stockledger/services/inventory/domain/repositories"
)

// ValidateRecord performs the structural checks a persisted record must pass
// before it is handed to the item factory. Field-level business rules (name
// length, quantity bounds, price range) are left to the factory so that
// loaded and newly created items share one validation path.
func ValidateRecord(rec repositories.ItemRecord) error {
	if rec.ID == uuid.Nil {
		return fmt.Errorf("%w: id must be set", itemdomain.ErrValidation)
	}
	if rec.DateAdded.IsZero() {
		return fmt.Errorf("%w: dateAdded must be set", itemdomain.ErrValidation)
	}
	return nil
}
