package httpserver

import (
	"net/http"
	"strconv"

	"github.com/machinebio/machinebio/internal/model"
	"github.com/machinebio/machinebio/internal/service"
)

type createSpotRequest struct {
	ImageKey      string  `json:"imageKey"`
	IsChallenge   bool    `json:"isChallenge"`
	CorrectAnswer string  `json:"correctAnswer"`
	Make          *string `json:"make"`
	Model         *string `json:"model"`
	Year          *int    `json:"year"`
}

func (s *Server) handleCreateSpot(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	var req createSpotRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	spot, err := s.spots.CreateSpot(r.Context(), caller.ID, service.SpotInput{
		ImageKey:      req.ImageKey,
		IsChallenge:   req.IsChallenge,
		CorrectAnswer: req.CorrectAnswer,
		Make:          req.Make,
		Model:         req.Model,
		Year:          req.Year,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.spotWithImageURL(r, *spot))
}

const defaultFeedLimit = 50

func (s *Server) handleListSpots(w http.ResponseWriter, r *http.Request) {
	limit := defaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= defaultFeedLimit {
			limit = n
		}
	}
	spots, err := s.spots.ListRecent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]spotDTO, 0, len(spots))
	for _, sp := range spots {
		out = append(out, s.spotWithImageURL(r, sp))
	}
	writeJSON(w, http.StatusOK, out)
}

type spotViewResponse struct {
	Spot    spotDTO    `json:"spot"`
	Guesses []guessDTO `json:"guesses"`
}

func (s *Server) handleGetSpot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.spots.GetSpot(r.Context(), s.optionalCaller(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	guesses := make([]guessDTO, 0, len(view.Guesses))
	for _, g := range view.Guesses {
		guesses = append(guesses, toGuessDTO(g))
	}
	writeJSON(w, http.StatusOK, spotViewResponse{
		Spot:    s.spotWithImageURL(r, view.Spot),
		Guesses: guesses,
	})
}

type guessRequest struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  *int   `json:"year"`
}

func (s *Server) handleSubmitGuess(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	spotID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req guessRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	g, err := s.spots.SubmitGuess(r.Context(), caller.ID, spotID, service.GuessInput{
		Make:  req.Make,
		Model: req.Model,
		Year:  req.Year,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGuessDTO(*g))
}

type revealResponse struct {
	Spot          spotDTO `json:"spot"`
	ScoredGuesses int     `json:"scoredGuesses"`
}

func (s *Server) handleRevealSpot(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	spotID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	spot, scored, err := s.spots.RevealSpot(r.Context(), caller.ID, spotID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, revealResponse{
		Spot:          s.spotWithImageURL(r, *spot),
		ScoredGuesses: scored,
	})
}

// spotWithImageURL attaches a short-lived view URL for the spot photo. A
// presign failure degrades to key-only output rather than failing the request.
func (s *Server) spotWithImageURL(r *http.Request, spot model.Spot) spotDTO {
	d := toSpotDTO(spot)
	if url, err := s.images.PresignView(r.Context(), spot.ImageKey); err == nil {
		d.ImageURL = url
	}
	return d
}
