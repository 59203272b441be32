package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/machinebio/machinebio/internal/model"
)

// VehicleRepository provides garage storage: vehicles and their history entries.
type VehicleRepository interface {
	Create(ctx context.Context, v *model.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	Update(ctx context.Context, v *model.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Vehicle, error)

	// Stats returns one row per vehicle with everything the ranking engine
	// needs: stats, summed history cost, canonical make/model ids and the
	// owner's country. Vehicles with no costed history report investment 0.
	Stats(ctx context.Context) ([]model.VehicleStats, error)

	AddHistory(ctx context.Context, h *model.HistoryEntry) error
	GetHistory(ctx context.Context, id uuid.UUID) (*model.HistoryEntry, error)
	DeleteHistory(ctx context.Context, id uuid.UUID) error
	ListHistory(ctx context.Context, vehicleID uuid.UUID) ([]model.HistoryEntry, error)
}

// CatalogRepository resolves canonical vehicle identity links.
type CatalogRepository interface {
	// GetGenerationInfo resolves a generation to its model/make triple.
	GetGenerationInfo(ctx context.Context, generationID uuid.UUID) (*model.GenerationInfo, error)
}
