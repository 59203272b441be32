package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/model"
	"github.com/machinebio/machinebio/internal/repository"
)

// maxLapDuration guards against garbage submissions; no circuit takes longer.
const maxLapDuration = time.Hour

// LapInput carries a lap-time submission.
type LapInput struct {
	Sim      string
	Track    string
	Car      string
	TimeMS   int64
	ProofURL *string
}

// LapTimeService records sim-racing laps and serves leaderboards.
type LapTimeService interface {
	Submit(ctx context.Context, userID uuid.UUID, in LapInput) (*model.LapTime, error)
	Leaderboard(ctx context.Context, sim, track string, limit int) ([]model.LeaderboardRow, error)
}

type LapTimeServiceImpl struct {
	laps repository.LapTimeRepository
}

// NewLapTimeService constructs LapTimeService.
func NewLapTimeService(laps repository.LapTimeRepository) *LapTimeServiceImpl {
	return &LapTimeServiceImpl{laps: laps}
}

// Submit validates and stores a lap record.
func (s *LapTimeServiceImpl) Submit(ctx context.Context, userID uuid.UUID, in LapInput) (*model.LapTime, error) {
	in.Sim = strings.ToLower(strings.TrimSpace(in.Sim))
	in.Track = strings.ToLower(strings.TrimSpace(in.Track))
	in.Car = strings.TrimSpace(in.Car)
	if in.Sim == "" || in.Track == "" || in.Car == "" {
		return nil, fmt.Errorf("%w: sim, track and car required", errs.ErrValidation)
	}
	if in.TimeMS <= 0 || in.TimeMS > maxLapDuration.Milliseconds() {
		return nil, fmt.Errorf("%w: implausible lap time", errs.ErrValidation)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	lt := &model.LapTime{
		ID:       id,
		UserID:   userID,
		Sim:      in.Sim,
		Track:    in.Track,
		Car:      in.Car,
		TimeMS:   in.TimeMS,
		ProofURL: in.ProofURL,
	}
	if err := s.laps.Create(ctx, lt); err != nil {
		return nil, err
	}
	return lt, nil
}

// Leaderboard returns the best lap per user for (sim, track), fastest first.
func (s *LapTimeServiceImpl) Leaderboard(ctx context.Context, sim, track string, limit int) ([]model.LeaderboardRow, error) {
	sim = strings.ToLower(strings.TrimSpace(sim))
	track = strings.ToLower(strings.TrimSpace(track))
	if sim == "" || track == "" {
		return nil, fmt.Errorf("%w: sim and track required", errs.ErrValidation)
	}
	return s.laps.Leaderboard(ctx, sim, track, limit)
}
