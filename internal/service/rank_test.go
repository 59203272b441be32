package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/model"
)

func intp(v int) *int { return &v }

func strp(s string) *string { return &s }

func uuidp() *uuid.UUID {
	u := uuid.Must(uuid.NewV4())
	return &u
}

func sameUUID(u uuid.UUID) *uuid.UUID { return &u }

func TestRank_UnknownVehicle(t *testing.T) {
	t.Parallel()
	repo := newFakeVehicles()
	s := NewRankingService(repo)

	if _, err := s.VehicleRankings(context.Background(), uuid.Must(uuid.NewV4())); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRank_ScopesAndMetrics(t *testing.T) {
	t.Parallel()
	repo := newFakeVehicles()
	s := NewRankingService(repo)

	makeID := uuid.Must(uuid.NewV4())
	modelID := uuid.Must(uuid.NewV4())
	target := uuid.Must(uuid.NewV4())

	repo.stats = []model.VehicleStats{
		{
			VehicleID:    target,
			Horsepower:   intp(300),
			InvestCents:  50_000,
			MakeID:       sameUUID(makeID),
			ModelID:      sameUUID(modelID),
			OwnerCountry: strp("DE"),
		},
		{VehicleID: uuid.Must(uuid.NewV4()), Horsepower: intp(500), MakeID: sameUUID(makeID), OwnerCountry: strp("DE")},
		{VehicleID: uuid.Must(uuid.NewV4()), Horsepower: intp(200), OwnerCountry: strp("US")},
		{VehicleID: uuid.Must(uuid.NewV4()), InvestCents: 80_000},
	}

	r, err := s.VehicleRankings(context.Background(), target)
	if err != nil {
		t.Fatalf("VehicleRankings: %v", err)
	}

	hp := r.Horsepower
	if hp.Global == nil || hp.Global.Rank != 2 || hp.Global.Total != 3 {
		t.Fatalf("global hp standing: %+v", hp.Global)
	}
	if hp.Make == nil || hp.Make.Rank != 2 || hp.Make.Total != 2 {
		t.Fatalf("make hp standing: %+v", hp.Make)
	}
	// target is the only vehicle of its model with a horsepower stat
	if hp.Model == nil || hp.Model.Rank != 1 || hp.Model.Total != 1 {
		t.Fatalf("model hp standing: %+v", hp.Model)
	}
	if hp.Country == nil || hp.Country.Rank != 2 || hp.Country.Total != 2 {
		t.Fatalf("country hp standing: %+v", hp.Country)
	}

	// torque was never recorded anywhere: every scope nil
	tq := r.Torque
	if tq.Global != nil || tq.Make != nil || tq.Model != nil || tq.Country != nil {
		t.Fatalf("torque standings should all be nil: %+v", tq)
	}

	inv := r.Investment
	if inv.Global == nil || inv.Global.Rank != 2 || inv.Global.Total != 2 {
		t.Fatalf("global investment standing: %+v", inv.Global)
	}
}

func TestRank_UnlinkedVehicleHasNoMakeScope(t *testing.T) {
	t.Parallel()
	repo := newFakeVehicles()
	s := NewRankingService(repo)

	target := uuid.Must(uuid.NewV4())
	repo.stats = []model.VehicleStats{
		{VehicleID: target, Horsepower: intp(400)},
		{VehicleID: uuid.Must(uuid.NewV4()), Horsepower: intp(350), MakeID: uuidp()},
	}

	r, err := s.VehicleRankings(context.Background(), target)
	if err != nil {
		t.Fatalf("VehicleRankings: %v", err)
	}
	if r.Horsepower.Make != nil || r.Horsepower.Model != nil || r.Horsepower.Country != nil {
		t.Fatalf("unlinked vehicle should only rank globally: %+v", r.Horsepower)
	}
	if r.Horsepower.Global == nil || r.Horsepower.Global.Rank != 1 {
		t.Fatalf("global standing: %+v", r.Horsepower.Global)
	}
}

func TestRank_RepoErrorPropagates(t *testing.T) {
	t.Parallel()
	repo := newFakeVehicles()
	repo.statsErr = errors.New("db down")
	s := NewRankingService(repo)

	if _, err := s.VehicleRankings(context.Background(), uuid.Must(uuid.NewV4())); err == nil {
		t.Fatalf("want propagated repo error")
	}
}
