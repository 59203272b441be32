package httpserver

import (
	"time"

	"github.com/machinebio/machinebio/internal/model"
)

type vehicleDTO struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Name         string    `json:"name"`
	GenerationID *string   `json:"generationId,omitempty"`
	Horsepower   *int      `json:"horsepower,omitempty"`
	Torque       *int      `json:"torque,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toVehicleDTO(v model.Vehicle) vehicleDTO {
	d := vehicleDTO{
		ID:         v.ID.String(),
		OwnerID:    v.OwnerID.String(),
		Name:       v.Name,
		Horsepower: v.Horsepower,
		Torque:     v.Torque,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
	if v.GenerationID != nil {
		g := v.GenerationID.String()
		d.GenerationID = &g
	}
	return d
}

type historyDTO struct {
	ID         string    `json:"id"`
	VehicleID  string    `json:"vehicleId"`
	Title      string    `json:"title"`
	CostCents  *int64    `json:"costCents,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toHistoryDTO(h model.HistoryEntry) historyDTO {
	return historyDTO{
		ID:         h.ID.String(),
		VehicleID:  h.VehicleID.String(),
		Title:      h.Title,
		CostCents:  h.CostCents,
		OccurredAt: h.OccurredAt,
		CreatedAt:  h.CreatedAt,
	}
}

type spotDTO struct {
	ID            string     `json:"id"`
	SpotterID     string     `json:"spotterId"`
	ImageKey      string     `json:"imageKey"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	Make          *string    `json:"make,omitempty"`
	Model         *string    `json:"model,omitempty"`
	Year          *int       `json:"year,omitempty"`
	IsChallenge   bool       `json:"isChallenge"`
	IsIdentified  bool       `json:"isIdentified"`
	CorrectAnswer *string    `json:"correctAnswer,omitempty"`
	RevealedAt    *time.Time `json:"revealedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func toSpotDTO(s model.Spot) spotDTO {
	return spotDTO{
		ID:            s.ID.String(),
		SpotterID:     s.SpotterID.String(),
		ImageKey:      s.ImageKey,
		Make:          s.Make,
		Model:         s.Model,
		Year:          s.Year,
		IsChallenge:   s.IsChallenge,
		IsIdentified:  s.IsIdentified,
		CorrectAnswer: s.CorrectAnswer,
		RevealedAt:    s.RevealedAt,
		CreatedAt:     s.CreatedAt,
	}
}

type guessDTO struct {
	ID        string    `json:"id"`
	SpotID    string    `json:"spotId"`
	UserID    string    `json:"userId"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      *int      `json:"year,omitempty"`
	IsCorrect *bool     `json:"isCorrect,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toGuessDTO(g model.Guess) guessDTO {
	return guessDTO{
		ID:        g.ID.String(),
		SpotID:    g.SpotID.String(),
		UserID:    g.UserID.String(),
		Make:      g.Make,
		Model:     g.Model,
		Year:      g.Year,
		IsCorrect: g.IsCorrect,
		CreatedAt: g.CreatedAt,
	}
}

type leaderboardRowDTO struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Car      string    `json:"car"`
	TimeMS   int64     `json:"timeMs"`
	SetAt    time.Time `json:"setAt"`
}

func toLeaderboardDTO(rows []model.LeaderboardRow) []leaderboardRowDTO {
	out := make([]leaderboardRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, leaderboardRowDTO{
			UserID:   r.UserID.String(),
			Username: r.Username,
			Car:      r.Car,
			TimeMS:   r.TimeMS,
			SetAt:    r.SetAt,
		})
	}
	return out
}
