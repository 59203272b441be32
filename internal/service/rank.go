package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/model"
	"github.com/machinebio/machinebio/internal/ranking"
	"github.com/machinebio/machinebio/internal/repository"
)

// RankingService computes percentile standings for one vehicle.
type RankingService interface {
	// VehicleRankings returns standings for horsepower, torque and investment
	// in every applicable scope. Scopes the vehicle cannot enter (no canonical
	// make/model link, owner without a country, stat never recorded) come back
	// nil instead of erroring.
	VehicleRankings(ctx context.Context, vehicleID uuid.UUID) (*model.VehicleRankings, error)
}

type RankingServiceImpl struct {
	vehicles repository.VehicleRepository
}

// NewRankingService constructs RankingService.
func NewRankingService(vehicles repository.VehicleRepository) *RankingServiceImpl {
	return &RankingServiceImpl{vehicles: vehicles}
}

// VehicleRankings loads the full comparison population once and ranks the
// target vehicle against the four scoped slices per metric.
func (s *RankingServiceImpl) VehicleRankings(ctx context.Context, vehicleID uuid.UUID) (*model.VehicleRankings, error) {
	stats, err := s.vehicles.Stats(ctx)
	if err != nil {
		return nil, err
	}

	var target *model.VehicleStats
	for i := range stats {
		if stats[i].VehicleID == vehicleID {
			target = &stats[i]
			break
		}
	}
	if target == nil {
		return nil, errs.ErrNotFound
	}

	return &model.VehicleRankings{
		Horsepower: s.metric(*target, stats, horsepowerOf),
		Torque:     s.metric(*target, stats, torqueOf),
		Investment: s.metric(*target, stats, investmentOf),
	}, nil
}

// metric ranks one metric of the target across global, make, model and country
// scopes. Vehicles without a canonical link never enter make/model scopes;
// there is no "unknown make" bucket.
func (s *RankingServiceImpl) metric(
	target model.VehicleStats, stats []model.VehicleStats, value func(model.VehicleStats) int64,
) model.MetricStandings {
	v := value(target)

	var ms model.MetricStandings
	ms.Global = ranking.Calculate(v, collect(stats, value, func(model.VehicleStats) bool { return true }))

	if target.MakeID != nil {
		ms.Make = ranking.Calculate(v, collect(stats, value, func(r model.VehicleStats) bool {
			return r.MakeID != nil && *r.MakeID == *target.MakeID
		}))
	}
	if target.ModelID != nil {
		ms.Model = ranking.Calculate(v, collect(stats, value, func(r model.VehicleStats) bool {
			return r.ModelID != nil && *r.ModelID == *target.ModelID
		}))
	}
	if target.OwnerCountry != nil && *target.OwnerCountry != "" {
		ms.Country = ranking.Calculate(v, collect(stats, value, func(r model.VehicleStats) bool {
			return r.OwnerCountry != nil && *r.OwnerCountry == *target.OwnerCountry
		}))
	}
	return ms
}

func collect(stats []model.VehicleStats, value func(model.VehicleStats) int64, keep func(model.VehicleStats) bool) []int64 {
	out := make([]int64, 0, len(stats))
	for _, r := range stats {
		if keep(r) {
			out = append(out, value(r))
		}
	}
	return out
}

func horsepowerOf(r model.VehicleStats) int64 {
	if r.Horsepower == nil {
		return 0
	}
	return int64(*r.Horsepower)
}

func torqueOf(r model.VehicleStats) int64 {
	if r.Torque == nil {
		return 0
	}
	return int64(*r.Torque)
}

// investmentOf treats missing history as 0, which the ranking filter then
// drops: cars with no recorded spend are absent from the investment board,
// not ranked last.
func investmentOf(r model.VehicleStats) int64 { return r.InvestCents }
