package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/machinebio/machinebio/internal/model"
)

// SpotRepository provides spot and guess storage.
type SpotRepository interface {
	Create(ctx context.Context, s *model.Spot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Spot, error)
	ListRecent(ctx context.Context, limit int) ([]model.Spot, error)

	// CreateGuess inserts a guess; ErrDuplicate when the (spot, user) pair
	// already has one. The unique constraint is the sole arbiter.
	CreateGuess(ctx context.Context, g *model.Guess) error
	ListGuesses(ctx context.Context, spotID uuid.UUID) ([]model.Guess, error)

	// Reveal transitions the spot to revealed and scores every guess in one
	// transaction. The spot update is conditional on revealed_at still being
	// null; ErrInvalidState when another reveal won the race. The score
	// callback decides correctness per guess; it must be pure.
	Reveal(ctx context.Context, spotID uuid.UUID, make, carModel *string, score func(model.Guess) bool) (int, error)
}
