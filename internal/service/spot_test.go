package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/model"
	"github.com/machinebio/machinebio/internal/repository"
)

// fakeSpots mirrors the storage semantics the service relies on: the unique
// guess constraint and the one-way conditional reveal.
type fakeSpots struct {
	spots   map[uuid.UUID]*model.Spot
	guesses []model.Guess

	revealErr error
}

var _ repository.SpotRepository = (*fakeSpots)(nil)

func newFakeSpots() *fakeSpots {
	return &fakeSpots{spots: map[uuid.UUID]*model.Spot{}}
}

func (f *fakeSpots) Create(_ context.Context, s *model.Spot) error {
	cpy := *s
	cpy.CreatedAt = time.Now()
	f.spots[s.ID] = &cpy
	return nil
}

func (f *fakeSpots) GetByID(_ context.Context, id uuid.UUID) (*model.Spot, error) {
	s, ok := f.spots[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *s
	return &c, nil
}

func (f *fakeSpots) ListRecent(_ context.Context, limit int) ([]model.Spot, error) {
	out := make([]model.Spot, 0, len(f.spots))
	for _, s := range f.spots {
		out = append(out, *s)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeSpots) CreateGuess(_ context.Context, g *model.Guess) error {
	for _, existing := range f.guesses {
		if existing.SpotID == g.SpotID && existing.UserID == g.UserID {
			return errs.ErrDuplicate
		}
	}
	cpy := *g
	cpy.CreatedAt = time.Now()
	f.guesses = append(f.guesses, cpy)
	return nil
}

func (f *fakeSpots) ListGuesses(_ context.Context, spotID uuid.UUID) ([]model.Guess, error) {
	var out []model.Guess
	for _, g := range f.guesses {
		if g.SpotID == spotID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeSpots) Reveal(_ context.Context, spotID uuid.UUID, carMake, carModel *string, score func(model.Guess) bool) (int, error) {
	if f.revealErr != nil {
		return 0, f.revealErr
	}
	s, ok := f.spots[spotID]
	if !ok {
		return 0, errs.ErrNotFound
	}
	if !s.IsChallenge || s.RevealedAt != nil {
		return 0, errs.ErrInvalidState
	}
	now := time.Now()
	s.RevealedAt = &now
	s.Make = carMake
	s.Model = carModel
	s.IsIdentified = true
	n := 0
	for i := range f.guesses {
		if f.guesses[i].SpotID != spotID {
			continue
		}
		ok := score(f.guesses[i])
		f.guesses[i].IsCorrect = &ok
		n++
	}
	return n, nil
}

func mustCreateChallenge(t *testing.T, s SpotService, spotter uuid.UUID, answer string) *model.Spot {
	t.Helper()
	spot, err := s.CreateSpot(context.Background(), spotter, SpotInput{
		ImageKey:      "spots/2026/08/30/abc",
		IsChallenge:   true,
		CorrectAnswer: answer,
	})
	if err != nil {
		t.Fatalf("CreateSpot: %v", err)
	}
	return spot
}

func TestSpot_Create_Validation(t *testing.T) {
	t.Parallel()
	s := NewSpotService(newFakeSpots())
	spotter := uuid.Must(uuid.NewV4())

	if _, err := s.CreateSpot(context.Background(), spotter, SpotInput{}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error without image, got %v", err)
	}
	if _, err := s.CreateSpot(context.Background(), spotter, SpotInput{
		ImageKey:    "k",
		IsChallenge: true,
	}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error for challenge without answer, got %v", err)
	}
}

func TestSpot_Create_ChallengeHidesIdentity(t *testing.T) {
	t.Parallel()
	s := NewSpotService(newFakeSpots())
	spotter := uuid.Must(uuid.NewV4())

	mk := "Toyota"
	spot, err := s.CreateSpot(context.Background(), spotter, SpotInput{
		ImageKey:      "k",
		IsChallenge:   true,
		CorrectAnswer: " Toyota Supra ",
		Make:          &mk, // must be discarded on a challenge
	})
	if err != nil {
		t.Fatalf("CreateSpot: %v", err)
	}
	if spot.Make != nil || spot.Model != nil || spot.IsIdentified {
		t.Fatalf("challenge leaked identity: %+v", spot)
	}
	if spot.CorrectAnswer == nil || *spot.CorrectAnswer != "Toyota Supra" {
		t.Fatalf("answer not trimmed/stored: %v", spot.CorrectAnswer)
	}
}

func TestSpot_Create_PlainSpotIdentifiedByMake(t *testing.T) {
	t.Parallel()
	s := NewSpotService(newFakeSpots())
	spotter := uuid.Must(uuid.NewV4())

	mk := "Mazda"
	withMake, err := s.CreateSpot(context.Background(), spotter, SpotInput{ImageKey: "a", Make: &mk})
	if err != nil {
		t.Fatalf("CreateSpot: %v", err)
	}
	if !withMake.IsIdentified {
		t.Fatalf("spot with make should be identified")
	}

	anon, err := s.CreateSpot(context.Background(), spotter, SpotInput{ImageKey: "b"})
	if err != nil {
		t.Fatalf("CreateSpot: %v", err)
	}
	if anon.IsIdentified {
		t.Fatalf("spot without make should stay unidentified")
	}
}

func TestSpot_SubmitGuess_StateMachine(t *testing.T) {
	t.Parallel()
	repo := newFakeSpots()
	s := NewSpotService(repo)
	spotter := uuid.Must(uuid.NewV4())
	guesser := uuid.Must(uuid.NewV4())

	spot := mustCreateChallenge(t, s, spotter, "Toyota Supra")
	in := GuessInput{Make: "Toyota", Model: "Supra"}

	if _, err := s.SubmitGuess(context.Background(), guesser, spot.ID, GuessInput{}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error on empty guess, got %v", err)
	}
	if _, err := s.SubmitGuess(context.Background(), guesser, uuid.Must(uuid.NewV4()), in); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound on unknown spot, got %v", err)
	}
	if _, err := s.SubmitGuess(context.Background(), spotter, spot.ID, in); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("want ErrInvalidState guessing on own spot, got %v", err)
	}

	if _, err := s.SubmitGuess(context.Background(), guesser, spot.ID, in); err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if _, err := s.SubmitGuess(context.Background(), guesser, spot.ID, in); !errors.Is(err, errs.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate on second guess, got %v", err)
	}

	plain, err := s.CreateSpot(context.Background(), spotter, SpotInput{ImageKey: "p"})
	if err != nil {
		t.Fatalf("CreateSpot: %v", err)
	}
	if _, err := s.SubmitGuess(context.Background(), guesser, plain.ID, in); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("want ErrInvalidState on non-challenge, got %v", err)
	}
}

func TestSpot_Reveal_ScoresAndDerivesIdentity(t *testing.T) {
	t.Parallel()
	repo := newFakeSpots()
	s := NewSpotService(repo)
	spotter := uuid.Must(uuid.NewV4())
	alice := uuid.Must(uuid.NewV4())
	bob := uuid.Must(uuid.NewV4())

	spot := mustCreateChallenge(t, s, spotter, "Toyota Supra")
	if _, err := s.SubmitGuess(context.Background(), alice, spot.ID, GuessInput{Make: "toyota", Model: "supra"}); err != nil {
		t.Fatalf("guess: %v", err)
	}
	if _, err := s.SubmitGuess(context.Background(), bob, spot.ID, GuessInput{Make: "Nissan", Model: "GT-R"}); err != nil {
		t.Fatalf("guess: %v", err)
	}

	if _, _, err := s.RevealSpot(context.Background(), alice, spot.ID); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("want ErrForbidden revealing someone else's spot, got %v", err)
	}

	revealed, scored, err := s.RevealSpot(context.Background(), spotter, spot.ID)
	if err != nil {
		t.Fatalf("RevealSpot: %v", err)
	}
	if scored != 2 {
		t.Fatalf("scored = %d, want 2", scored)
	}
	if !revealed.Revealed() || !revealed.IsIdentified {
		t.Fatalf("spot not revealed: %+v", revealed)
	}
	if revealed.Make == nil || *revealed.Make != "Toyota" || revealed.Model == nil || *revealed.Model != "Supra" {
		t.Fatalf("identity not derived from answer: %v %v", revealed.Make, revealed.Model)
	}

	for _, g := range repo.guesses {
		if g.IsCorrect == nil {
			t.Fatalf("guess left unscored: %+v", g)
		}
		want := g.UserID == alice
		if *g.IsCorrect != want {
			t.Fatalf("guess %s/%s scored %v, want %v", g.Make, g.Model, *g.IsCorrect, want)
		}
	}

	if _, _, err := s.RevealSpot(context.Background(), spotter, spot.ID); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("want ErrInvalidState on second reveal, got %v", err)
	}
}

func TestSpot_GetSpot_Visibility(t *testing.T) {
	t.Parallel()
	repo := newFakeSpots()
	s := NewSpotService(repo)
	spotter := uuid.Must(uuid.NewV4())
	guesser := uuid.Must(uuid.NewV4())

	spot := mustCreateChallenge(t, s, spotter, "Honda NSX")
	if _, err := s.SubmitGuess(context.Background(), guesser, spot.ID, GuessInput{Make: "Honda", Model: "NSX"}); err != nil {
		t.Fatalf("guess: %v", err)
	}

	// anonymous viewer while open: no answer, no correctness
	view, err := s.GetSpot(context.Background(), nil, spot.ID)
	if err != nil {
		t.Fatalf("GetSpot: %v", err)
	}
	if view.Spot.CorrectAnswer != nil {
		t.Fatalf("answer leaked to anonymous viewer")
	}
	if len(view.Guesses) != 1 || view.Guesses[0].Make != "Honda" {
		t.Fatalf("guess text should stay public: %+v", view.Guesses)
	}

	// owner sees the answer even while open
	owner := &Caller{ID: spotter, Role: model.RoleUser}
	view, err = s.GetSpot(context.Background(), owner, spot.ID)
	if err != nil {
		t.Fatalf("GetSpot: %v", err)
	}
	if view.Spot.CorrectAnswer == nil {
		t.Fatalf("owner should see the answer")
	}

	if _, _, err := s.RevealSpot(context.Background(), spotter, spot.ID); err != nil {
		t.Fatalf("reveal: %v", err)
	}

	// after reveal everything is public
	view, err = s.GetSpot(context.Background(), nil, spot.ID)
	if err != nil {
		t.Fatalf("GetSpot: %v", err)
	}
	if view.Spot.CorrectAnswer == nil || view.Guesses[0].IsCorrect == nil {
		t.Fatalf("revealed spot should be fully visible: %+v", view)
	}
}

func TestSpot_ListRecent_StripsOpenAnswers(t *testing.T) {
	t.Parallel()
	repo := newFakeSpots()
	s := NewSpotService(repo)
	spotter := uuid.Must(uuid.NewV4())

	open := mustCreateChallenge(t, s, spotter, "BMW M3")
	done := mustCreateChallenge(t, s, spotter, "Audi RS6")
	if _, _, err := s.RevealSpot(context.Background(), spotter, done.ID); err != nil {
		t.Fatalf("reveal: %v", err)
	}

	spots, err := s.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	for _, sp := range spots {
		switch sp.ID {
		case open.ID:
			if sp.CorrectAnswer != nil {
				t.Fatalf("open challenge leaked its answer in list")
			}
		case done.ID:
			if sp.CorrectAnswer == nil {
				t.Fatalf("revealed challenge should keep its answer in list")
			}
		}
	}
}
