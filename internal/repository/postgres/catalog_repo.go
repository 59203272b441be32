package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/model"
)

// CatalogRepo resolves canonical generation/model/make links.
type CatalogRepo struct{ db *DB }

// NewCatalogRepo constructs a catalog repository.
func NewCatalogRepo(db *DB) *CatalogRepo { return &CatalogRepo{db: db} }

// GetGenerationInfo resolves a generation ID to its model/make triple.
func (r *CatalogRepo) GetGenerationInfo(ctx context.Context, generationID uuid.UUID) (*model.GenerationInfo, error) {
	const q = `
SELECT g.id, m.id, m.name, mk.id, mk.name
FROM generations g
JOIN models m ON m.id = g.model_id
JOIN makes mk ON mk.id = m.make_id
WHERE g.id=$1`
	var gi model.GenerationInfo
	err := r.db.Pool.QueryRow(ctx, q, generationID).Scan(
		&gi.GenerationID, &gi.ModelID, &gi.ModelName, &gi.MakeID, &gi.MakeName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &gi, nil
}
