package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/model"
	"github.com/machinebio/machinebio/internal/repository"
)

// SpotInput carries a new spot. For a challenge only CorrectAnswer is kept;
// any supplied make/model/year is discarded so the answer stays hidden.
type SpotInput struct {
	ImageKey      string
	IsChallenge   bool
	CorrectAnswer string
	Make          *string
	Model         *string
	Year          *int
}

// GuessInput carries one user's answer to a challenge.
type GuessInput struct {
	Make  string
	Model string
	Year  *int
}

// SpotView is a spot plus its guesses after visibility filtering.
type SpotView struct {
	Spot    model.Spot
	Guesses []model.Guess
}

// SpotService manages the spot / challenge lifecycle.
type SpotService interface {
	CreateSpot(ctx context.Context, spotterID uuid.UUID, in SpotInput) (*model.Spot, error)
	// SubmitGuess records a guess on an open challenge. ErrInvalidState on
	// non-challenges, revealed spots and own spots; ErrDuplicate on a second
	// guess by the same user.
	SubmitGuess(ctx context.Context, userID, spotID uuid.UUID, in GuessInput) (*model.Guess, error)
	// RevealSpot publishes the answer and scores all guesses; owner only,
	// exactly once per spot.
	RevealSpot(ctx context.Context, callerID, spotID uuid.UUID) (*model.Spot, int, error)
	// GetSpot returns the spot with its guesses, withholding the answer and
	// per-guess correctness from non-owners while the challenge is open.
	GetSpot(ctx context.Context, viewer *Caller, spotID uuid.UUID) (*SpotView, error)
	ListRecent(ctx context.Context, limit int) ([]model.Spot, error)
}

type SpotServiceImpl struct {
	spots repository.SpotRepository
}

// NewSpotService constructs SpotService.
func NewSpotService(spots repository.SpotRepository) *SpotServiceImpl {
	return &SpotServiceImpl{spots: spots}
}

// CreateSpot validates and persists a spot. Creation is atomic: a challenge is
// born open, a plain spot is born identified when its make is known.
func (s *SpotServiceImpl) CreateSpot(ctx context.Context, spotterID uuid.UUID, in SpotInput) (*model.Spot, error) {
	in.ImageKey = strings.TrimSpace(in.ImageKey)
	if in.ImageKey == "" {
		return nil, fmt.Errorf("%w: image required", errs.ErrValidation)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	spot := &model.Spot{
		ID:          id,
		SpotterID:   spotterID,
		ImageKey:    in.ImageKey,
		IsChallenge: in.IsChallenge,
	}

	if in.IsChallenge {
		answer := strings.TrimSpace(in.CorrectAnswer)
		if answer == "" {
			return nil, fmt.Errorf("%w: challenge requires the correct answer", errs.ErrValidation)
		}
		spot.CorrectAnswer = &answer
	} else {
		spot.Make = trimmedOrNil(in.Make)
		spot.Model = trimmedOrNil(in.Model)
		spot.Year = in.Year
		spot.IsIdentified = spot.Make != nil
	}

	if err := s.spots.Create(ctx, spot); err != nil {
		return nil, err
	}
	return spot, nil
}

// SubmitGuess records a guess on an open challenge.
func (s *SpotServiceImpl) SubmitGuess(ctx context.Context, userID, spotID uuid.UUID, in GuessInput) (*model.Guess, error) {
	in.Make = strings.TrimSpace(in.Make)
	in.Model = strings.TrimSpace(in.Model)
	if in.Make == "" || in.Model == "" {
		return nil, fmt.Errorf("%w: make and model required", errs.ErrValidation)
	}

	spot, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if !spot.IsChallenge || spot.Revealed() {
		return nil, errs.ErrInvalidState
	}
	if spot.SpotterID == userID {
		// the poster knows the answer
		return nil, errs.ErrInvalidState
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	g := &model.Guess{
		ID:     id,
		SpotID: spotID,
		UserID: userID,
		Make:   in.Make,
		Model:  in.Model,
		Year:   in.Year,
	}
	if err := s.spots.CreateGuess(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// RevealSpot publishes the answer, derives the spot's make/model from it, and
// retroactively scores every guess. Returns the revealed spot and the number
// of scored guesses.
//
// The one-way transition is enforced twice: here against the loaded snapshot,
// and inside the repository by a conditional update, which is the arbiter
// under concurrency.
func (s *SpotServiceImpl) RevealSpot(ctx context.Context, callerID, spotID uuid.UUID) (*model.Spot, int, error) {
	spot, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		return nil, 0, err
	}
	if spot.SpotterID != callerID {
		return nil, 0, errs.ErrForbidden
	}
	if !spot.IsChallenge || spot.Revealed() {
		return nil, 0, errs.ErrInvalidState
	}

	answer := ""
	if spot.CorrectAnswer != nil {
		answer = *spot.CorrectAnswer
	}
	carMake, carModel := splitIdentity(answer)

	scored, err := s.spots.Reveal(ctx, spotID, carMake, carModel, func(g model.Guess) bool {
		return guessMatches(answer, g.Make, g.Model)
	})
	if err != nil {
		return nil, 0, err
	}

	revealed, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		return nil, 0, err
	}
	return revealed, scored, nil
}

// GetSpot applies the visibility rules of an open challenge: guess text is
// public, the answer and correctness are not.
func (s *SpotServiceImpl) GetSpot(ctx context.Context, viewer *Caller, spotID uuid.UUID) (*SpotView, error) {
	spot, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		return nil, err
	}
	guesses, err := s.spots.ListGuesses(ctx, spotID)
	if err != nil {
		return nil, err
	}

	isOwner := viewer != nil && viewer.ID == spot.SpotterID
	if spot.IsChallenge && !spot.Revealed() && !isOwner {
		spot.CorrectAnswer = nil
		for i := range guesses {
			guesses[i].IsCorrect = nil
		}
	}
	return &SpotView{Spot: *spot, Guesses: guesses}, nil
}

// ListRecent returns the newest spots for the feed.
func (s *SpotServiceImpl) ListRecent(ctx context.Context, limit int) ([]model.Spot, error) {
	spots, err := s.spots.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	// answers of open challenges never leave the service layer in a list
	for i := range spots {
		if spots[i].IsChallenge && !spots[i].Revealed() {
			spots[i].CorrectAnswer = nil
		}
	}
	return spots, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
