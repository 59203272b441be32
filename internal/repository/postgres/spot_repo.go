package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/model"
)

// SpotRepo implements SpotRepository using PostgreSQL.
type SpotRepo struct{ db *DB }

// NewSpotRepo constructs a spot repository.
func NewSpotRepo(db *DB) *SpotRepo { return &SpotRepo{db: db} }

// Create inserts a new spot row.
func (r *SpotRepo) Create(ctx context.Context, s *model.Spot) error {
	const q = `
INSERT INTO spots (id, spotter_id, image_key, make, model, year, is_challenge, is_identified, correct_answer)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Pool.Exec(ctx, q,
		s.ID, s.SpotterID, s.ImageKey, s.Make, s.Model, s.Year, s.IsChallenge, s.IsIdentified, s.CorrectAnswer)
	return err
}

const spotColumns = `id, spotter_id, image_key, make, model, year, is_challenge, is_identified, correct_answer, revealed_at, created_at`

// GetByID selects a spot by ID.
func (r *SpotRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Spot, error) {
	const q = `SELECT ` + spotColumns + ` FROM spots WHERE id=$1`
	var s model.Spot
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&s.ID, &s.SpotterID, &s.ImageKey, &s.Make, &s.Model, &s.Year,
		&s.IsChallenge, &s.IsIdentified, &s.CorrectAnswer, &s.RevealedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListRecent returns the newest spots for the feed.
func (r *SpotRepo) ListRecent(ctx context.Context, limit int) ([]model.Spot, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `SELECT ` + spotColumns + ` FROM spots ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Spot
	for rows.Next() {
		var s model.Spot
		if err = rows.Scan(&s.ID, &s.SpotterID, &s.ImageKey, &s.Make, &s.Model, &s.Year,
			&s.IsChallenge, &s.IsIdentified, &s.CorrectAnswer, &s.RevealedAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateGuess inserts a guess with is_correct left null. The unique
// (spot_id, user_id) constraint arbitrates concurrent submissions; the loser
// gets ErrDuplicate, never a silently dropped write.
func (r *SpotRepo) CreateGuess(ctx context.Context, g *model.Guess) error {
	const q = `
INSERT INTO guesses (id, spot_id, user_id, make, model, year)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, g.ID, g.SpotID, g.UserID, g.Make, g.Model, g.Year)
	if isUniqueViolation(err) {
		return errs.ErrDuplicate
	}
	return err
}

// ListGuesses returns all guesses on a spot, oldest first.
func (r *SpotRepo) ListGuesses(ctx context.Context, spotID uuid.UUID) ([]model.Guess, error) {
	const q = `
SELECT id, spot_id, user_id, make, model, year, is_correct, created_at
FROM guesses WHERE spot_id=$1
ORDER BY created_at ASC`
	rows, err := r.db.Pool.Query(ctx, q, spotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Guess
	for rows.Next() {
		var g model.Guess
		if err = rows.Scan(&g.ID, &g.SpotID, &g.UserID, &g.Make, &g.Model, &g.Year, &g.IsCorrect, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Reveal flips the spot to revealed and scores every guess in one transaction,
// so a concurrent reader never observes revealed_at set with unscored guesses.
//
// The spot update is conditional (revealed_at IS NULL): of two concurrent
// reveals exactly one affects a row, the other returns ErrInvalidState without
// re-running the scoring pass.
func (r *SpotRepo) Reveal(
	ctx context.Context, spotID uuid.UUID, carMake, carModel *string, score func(model.Guess) bool,
) (scored int, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const upd = `
UPDATE spots
SET revealed_at=now(), make=$2, model=$3, is_identified=true
WHERE id=$1 AND is_challenge AND revealed_at IS NULL`
	tag, err := tx.Exec(ctx, upd, spotID, carMake, carModel)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrInvalidState
	}

	const sel = `
SELECT id, spot_id, user_id, make, model, year, is_correct, created_at
FROM guesses WHERE spot_id=$1 FOR UPDATE`
	rows, err := tx.Query(ctx, sel, spotID)
	if err != nil {
		return 0, err
	}
	var guesses []model.Guess
	for rows.Next() {
		var g model.Guess
		if err = rows.Scan(&g.ID, &g.SpotID, &g.UserID, &g.Make, &g.Model, &g.Year, &g.IsCorrect, &g.CreatedAt); err != nil {
			rows.Close()
			return 0, err
		}
		guesses = append(guesses, g)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, err
	}

	const mark = `UPDATE guesses SET is_correct=$2 WHERE id=$1`
	for _, g := range guesses {
		if _, err = tx.Exec(ctx, mark, g.ID, score(g)); err != nil {
			return 0, err
		}
	}
	return len(guesses), nil
}
