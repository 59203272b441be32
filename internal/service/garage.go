package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/model"
	"github.com/machinebio/machinebio/internal/repository"
)

// VehicleInput carries the owner-editable fields of a vehicle.
type VehicleInput struct {
	Name         string
	GenerationID *uuid.UUID
	Horsepower   *int
	Torque       *int
}

// HistoryInput carries a new garage history entry.
type HistoryInput struct {
	Title      string
	CostCents  *int64
	OccurredAt time.Time
}

// GarageService manages vehicles and their history entries.
type GarageService interface {
	CreateVehicle(ctx context.Context, owner Caller, in VehicleInput) (*model.Vehicle, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	UpdateVehicle(ctx context.Context, caller Caller, id uuid.UUID, in VehicleInput) (*model.Vehicle, error)
	DeleteVehicle(ctx context.Context, caller Caller, id uuid.UUID) error
	ListVehicles(ctx context.Context, ownerID uuid.UUID) ([]model.Vehicle, error)

	AddHistory(ctx context.Context, caller Caller, vehicleID uuid.UUID, in HistoryInput) (*model.HistoryEntry, error)
	DeleteHistory(ctx context.Context, caller Caller, entryID uuid.UUID) error
	ListHistory(ctx context.Context, vehicleID uuid.UUID) ([]model.HistoryEntry, error)
}

type GarageServiceImpl struct {
	vehicles repository.VehicleRepository
	catalog  repository.CatalogRepository
}

// NewGarageService constructs GarageService.
func NewGarageService(vehicles repository.VehicleRepository, catalog repository.CatalogRepository) *GarageServiceImpl {
	return &GarageServiceImpl{vehicles: vehicles, catalog: catalog}
}

func (s *GarageServiceImpl) validateInput(ctx context.Context, in *VehicleInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: vehicle name required", errs.ErrValidation)
	}
	if in.Horsepower != nil && *in.Horsepower <= 0 {
		return fmt.Errorf("%w: horsepower must be positive", errs.ErrValidation)
	}
	if in.Torque != nil && *in.Torque <= 0 {
		return fmt.Errorf("%w: torque must be positive", errs.ErrValidation)
	}
	if in.GenerationID != nil {
		if _, err := s.catalog.GetGenerationInfo(ctx, *in.GenerationID); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return fmt.Errorf("%w: unknown generation", errs.ErrValidation)
			}
			return err
		}
	}
	return nil
}

// CreateVehicle adds a vehicle to the caller's garage.
func (s *GarageServiceImpl) CreateVehicle(ctx context.Context, owner Caller, in VehicleInput) (*model.Vehicle, error) {
	if err := s.validateInput(ctx, &in); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	v := &model.Vehicle{
		ID:           id,
		OwnerID:      owner.ID,
		Name:         in.Name,
		GenerationID: in.GenerationID,
		Horsepower:   in.Horsepower,
		Torque:       in.Torque,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// GetVehicle loads one vehicle.
func (s *GarageServiceImpl) GetVehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	return s.vehicles.GetByID(ctx, id)
}

// mutableVehicle loads a vehicle and checks the caller may mutate it.
func (s *GarageServiceImpl) mutableVehicle(ctx context.Context, caller Caller, id uuid.UUID) (*model.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != caller.ID && !caller.CanModerate() {
		return nil, errs.ErrForbidden
	}
	return v, nil
}

// UpdateVehicle rewrites a vehicle's editable fields; owner or moderator only.
func (s *GarageServiceImpl) UpdateVehicle(ctx context.Context, caller Caller, id uuid.UUID, in VehicleInput) (*model.Vehicle, error) {
	v, err := s.mutableVehicle(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(ctx, &in); err != nil {
		return nil, err
	}
	v.Name = in.Name
	v.GenerationID = in.GenerationID
	v.Horsepower = in.Horsepower
	v.Torque = in.Torque
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// DeleteVehicle removes a vehicle; owner or moderator only. Rankings need no
// cleanup, they are computed on demand.
func (s *GarageServiceImpl) DeleteVehicle(ctx context.Context, caller Caller, id uuid.UUID) error {
	if _, err := s.mutableVehicle(ctx, caller, id); err != nil {
		return err
	}
	return s.vehicles.Delete(ctx, id)
}

// ListVehicles returns one user's garage.
func (s *GarageServiceImpl) ListVehicles(ctx context.Context, ownerID uuid.UUID) ([]model.Vehicle, error) {
	return s.vehicles.ListByOwner(ctx, ownerID)
}

// AddHistory appends a history entry; vehicle owner only.
func (s *GarageServiceImpl) AddHistory(ctx context.Context, caller Caller, vehicleID uuid.UUID, in HistoryInput) (*model.HistoryEntry, error) {
	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != caller.ID {
		return nil, errs.ErrForbidden
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title required", errs.ErrValidation)
	}
	if in.CostCents != nil && *in.CostCents < 0 {
		return nil, fmt.Errorf("%w: cost must not be negative", errs.ErrValidation)
	}
	if in.OccurredAt.IsZero() {
		in.OccurredAt = time.Now()
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	h := &model.HistoryEntry{
		ID:         id,
		VehicleID:  vehicleID,
		Title:      in.Title,
		CostCents:  in.CostCents,
		OccurredAt: in.OccurredAt,
	}
	if err := s.vehicles.AddHistory(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// DeleteHistory removes a history entry; vehicle owner or moderator.
func (s *GarageServiceImpl) DeleteHistory(ctx context.Context, caller Caller, entryID uuid.UUID) error {
	h, err := s.vehicles.GetHistory(ctx, entryID)
	if err != nil {
		return err
	}
	if _, err := s.mutableVehicle(ctx, caller, h.VehicleID); err != nil {
		return err
	}
	return s.vehicles.DeleteHistory(ctx, entryID)
}

// ListHistory returns a vehicle's history entries.
func (s *GarageServiceImpl) ListHistory(ctx context.Context, vehicleID uuid.UUID) ([]model.HistoryEntry, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	return s.vehicles.ListHistory(ctx, vehicleID)
}
