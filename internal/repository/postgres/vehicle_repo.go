package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/model"
)

// VehicleRepo implements VehicleRepository using PostgreSQL.
type VehicleRepo struct{ db *DB }

// NewVehicleRepo constructs a vehicle repository.
func NewVehicleRepo(db *DB) *VehicleRepo { return &VehicleRepo{db: db} }

// Create inserts a new vehicle row.
func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	const q = `
INSERT INTO vehicles (id, owner_id, name, generation_id, horsepower, torque)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, v.ID, v.OwnerID, v.Name, v.GenerationID, v.Horsepower, v.Torque)
	return err
}

// GetByID selects a vehicle by ID.
func (r *VehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	const q = `
SELECT id, owner_id, name, generation_id, horsepower, torque, created_at, updated_at
FROM vehicles WHERE id=$1`
	var v model.Vehicle
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&v.ID, &v.OwnerID, &v.Name, &v.GenerationID, &v.Horsepower, &v.Torque, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Update rewrites the mutable fields of a vehicle.
func (r *VehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	const q = `
UPDATE vehicles
SET name=$2, generation_id=$3, horsepower=$4, torque=$5, updated_at=now()
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, v.ID, v.Name, v.GenerationID, v.Horsepower, v.Torque)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a vehicle; history entries cascade in the schema.
func (r *VehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM vehicles WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListByOwner returns all vehicles of one user, newest first.
func (r *VehicleRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Vehicle, error) {
	const q = `
SELECT id, owner_id, name, generation_id, horsepower, torque, created_at, updated_at
FROM vehicles WHERE owner_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Vehicle
	for rows.Next() {
		var v model.Vehicle
		if err = rows.Scan(&v.ID, &v.OwnerID, &v.Name, &v.GenerationID, &v.Horsepower, &v.Torque, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Stats returns the full comparison population for the ranking engine in one
// query: per-vehicle stats, summed costed history, canonical make/model ids
// via the generation link, and the owner's country.
func (r *VehicleRepo) Stats(ctx context.Context) ([]model.VehicleStats, error) {
	const q = `
SELECT v.id, v.horsepower, v.torque,
       COALESCE(h.total, 0),
       m.make_id, g.model_id, u.country
FROM vehicles v
JOIN users u ON u.id = v.owner_id
LEFT JOIN generations g ON g.id = v.generation_id
LEFT JOIN models m ON m.id = g.model_id
LEFT JOIN (
    SELECT vehicle_id, SUM(cost_cents) AS total
    FROM history_entries
    WHERE cost_cents IS NOT NULL
    GROUP BY vehicle_id
) h ON h.vehicle_id = v.id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.VehicleStats
	for rows.Next() {
		var (
			s             model.VehicleStats
			makeID, mdlID uuid.NullUUID
		)
		if err = rows.Scan(&s.VehicleID, &s.Horsepower, &s.Torque, &s.InvestCents, &makeID, &mdlID, &s.OwnerCountry); err != nil {
			return nil, err
		}
		if makeID.Valid {
			id := makeID.UUID
			s.MakeID = &id
		}
		if mdlID.Valid {
			id := mdlID.UUID
			s.ModelID = &id
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AddHistory inserts a history entry for a vehicle.
func (r *VehicleRepo) AddHistory(ctx context.Context, h *model.HistoryEntry) error {
	const q = `
INSERT INTO history_entries (id, vehicle_id, title, cost_cents, occurred_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, h.ID, h.VehicleID, h.Title, h.CostCents, h.OccurredAt)
	return err
}

// GetHistory selects a single history entry.
func (r *VehicleRepo) GetHistory(ctx context.Context, id uuid.UUID) (*model.HistoryEntry, error) {
	const q = `
SELECT id, vehicle_id, title, cost_cents, occurred_at, created_at
FROM history_entries WHERE id=$1`
	var h model.HistoryEntry
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&h.ID, &h.VehicleID, &h.Title, &h.CostCents, &h.OccurredAt, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// DeleteHistory removes a history entry.
func (r *VehicleRepo) DeleteHistory(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM history_entries WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListHistory returns a vehicle's history, most recent event first.
func (r *VehicleRepo) ListHistory(ctx context.Context, vehicleID uuid.UUID) ([]model.HistoryEntry, error) {
	const q = `
SELECT id, vehicle_id, title, cost_cents, occurred_at, created_at
FROM history_entries WHERE vehicle_id=$1
ORDER BY occurred_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.HistoryEntry
	for rows.Next() {
		var h model.HistoryEntry
		if err = rows.Scan(&h.ID, &h.VehicleID, &h.Title, &h.CostCents, &h.OccurredAt, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
