package services

import (
	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/services/inventory/domain/models"
	"github.com/ghuser/stockledger/services/inventory/infrastructure/persistence/jsonfile"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Inventory *InventoryService
}

// New wires all inventory application services with infrastructure from the Application container.
func New(a *app.Application) (*Services, error) {
	repo := jsonfile.NewSnapshotRepository(a.Config.SnapshotPath())
	inv, err := NewInventoryService(repo, a.EventBus, a.Logger, Options{
		Limits:            models.Limits{MaxQuantity: a.Config.MaxQuantity},
		LowStockThreshold: a.Config.LowStockThreshold,
		Autosave:          a.Config.Autosave,
	})
	if err != nil {
		return nil, err
	}
	return &Services{
		Inventory: inv,
	}, nil
}
