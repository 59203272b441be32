package repository

import (
	"context"

	"github.com/machinebio/machinebio/internal/model"
)

// LapTimeRepository stores sim-racing lap records.
type LapTimeRepository interface {
	Create(ctx context.Context, lt *model.LapTime) error
	// Leaderboard returns the best lap per user for (sim, track), fastest first.
	Leaderboard(ctx context.Context, sim, track string, limit int) ([]model.LeaderboardRow, error)
}
