package postgres

import (
	"context"

	"github.com/machinebio/machinebio/internal/model"
)

// LapTimeRepo implements LapTimeRepository using PostgreSQL.
type LapTimeRepo struct{ db *DB }

// NewLapTimeRepo constructs a lap time repository.
func NewLapTimeRepo(db *DB) *LapTimeRepo { return &LapTimeRepo{db: db} }

// Create inserts a lap record.
func (r *LapTimeRepo) Create(ctx context.Context, lt *model.LapTime) error {
	const q = `
INSERT INTO lap_times (id, user_id, sim, track, car, time_ms, proof_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Pool.Exec(ctx, q, lt.ID, lt.UserID, lt.Sim, lt.Track, lt.Car, lt.TimeMS, lt.ProofURL)
	return err
}

// Leaderboard returns each user's best lap for (sim, track), fastest first.
func (r *LapTimeRepo) Leaderboard(ctx context.Context, sim, track string, limit int) ([]model.LeaderboardRow, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT user_id, username, car, time_ms, created_at FROM (
    SELECT DISTINCT ON (l.user_id) l.user_id, u.username, l.car, l.time_ms, l.created_at
    FROM lap_times l
    JOIN users u ON u.id = l.user_id
    WHERE l.sim=$1 AND l.track=$2
    ORDER BY l.user_id, l.time_ms ASC
) best
ORDER BY time_ms ASC
LIMIT $3`
	rows, err := r.db.Pool.Query(ctx, q, sim, track, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LeaderboardRow
	for rows.Next() {
		var lr model.LeaderboardRow
		if err = rows.Scan(&lr.UserID, &lr.Username, &lr.Car, &lr.TimeMS, &lr.SetAt); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}
