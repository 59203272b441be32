package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/machinebio/machinebio/internal/model"
	"github.com/machinebio/machinebio/internal/service"
)

type lapRequest struct {
	Sim      string  `json:"sim"`
	Track    string  `json:"track"`
	Car      string  `json:"car"`
	TimeMS   int64   `json:"timeMs"`
	ProofURL *string `json:"proofUrl"`
}

type lapDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Sim       string    `json:"sim"`
	Track     string    `json:"track"`
	Car       string    `json:"car"`
	TimeMS    int64     `json:"timeMs"`
	ProofURL  *string   `json:"proofUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toLapDTO(lt model.LapTime) lapDTO {
	return lapDTO{
		ID:        lt.ID.String(),
		UserID:    lt.UserID.String(),
		Sim:       lt.Sim,
		Track:     lt.Track,
		Car:       lt.Car,
		TimeMS:    lt.TimeMS,
		ProofURL:  lt.ProofURL,
		CreatedAt: lt.CreatedAt,
	}
}

func (s *Server) handleSubmitLap(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	var req lapRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	lt, err := s.laps.Submit(r.Context(), caller.ID, service.LapInput{
		Sim:      req.Sim,
		Track:    req.Track,
		Car:      req.Car,
		TimeMS:   req.TimeMS,
		ProofURL: req.ProofURL,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLapDTO(*lt))
}

const defaultBoardLimit = 20

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := defaultBoardLimit
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	rows, err := s.laps.Leaderboard(r.Context(), q.Get("sim"), q.Get("track"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaderboardDTO(rows))
}
