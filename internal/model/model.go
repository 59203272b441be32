// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents an account. Country is optional free text used to scope rankings.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique
	PwdHash   []byte    // Argon2id(password, Salt)
	Salt      []byte    // per-user auth salt
	Country   *string   // owner country, nil if never set
	Role      Role      // user / moderator / admin / founder
	CreatedAt time.Time
}

// Tokens collects an issued access token and its expiry.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time
}

// GenerationInfo resolves a vehicle's canonical generation -> model -> make triple.
type GenerationInfo struct {
	GenerationID uuid.UUID
	ModelID      uuid.UUID
	ModelName    string
	MakeID       uuid.UUID
	MakeName     string
}

// Vehicle is a garage entry. Horsepower/Torque are nil when the owner never
// recorded the stat; a nil stat excludes the vehicle from that ranking.
type Vehicle struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string     // display name, e.g. "weekend toy"
	GenerationID *uuid.UUID // optional canonical identity link
	Horsepower   *int
	Torque       *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HistoryEntry is a dated garage log record with an optional cost in cents.
// Costs are only consumed in aggregate (summed per vehicle) by the investment ranking.
type HistoryEntry struct {
	ID         uuid.UUID
	VehicleID  uuid.UUID
	Title      string
	CostCents  *int64
	OccurredAt time.Time
	CreatedAt  time.Time
}

// VehicleStats is one comparison-population row for the ranking engine.
// MakeID/ModelID are nil for vehicles without a canonical identity link;
// such vehicles never enter make/model scoped populations.
type VehicleStats struct {
	VehicleID    uuid.UUID
	Horsepower   *int
	Torque       *int
	InvestCents  int64 // 0 when the vehicle has no costed history
	MakeID       *uuid.UUID
	ModelID      *uuid.UUID
	OwnerCountry *string
}

// Standing is a computed ranking position within a filtered population.
type Standing struct {
	Rank       int `json:"rank"`
	Total      int `json:"total"`
	Percentile int `json:"percentile"`
}

// MetricStandings scopes one metric's standing by comparison population.
// A nil entry means the vehicle could not be ranked in that scope.
type MetricStandings struct {
	Global  *Standing `json:"global,omitempty"`
	Make    *Standing `json:"make,omitempty"`
	Model   *Standing `json:"model,omitempty"`
	Country *Standing `json:"country,omitempty"`
}

// VehicleRankings collects standings for every ranked metric of one vehicle.
type VehicleRankings struct {
	Horsepower MetricStandings `json:"horsepower"`
	Torque     MetricStandings `json:"torque"`
	Investment MetricStandings `json:"investment"`
}

// Spot is a posted vehicle photo, optionally a guess-the-car challenge.
//
// Invariants:
//   - CorrectAnswer is set at creation iff IsChallenge is true, and is cleared
//     by nothing (withheld from non-owners while unrevealed).
//   - RevealedAt is nil until exactly one reveal succeeds, then permanent.
//   - A non-challenge spot carries Make/Model directly and is identified iff
//     Make was provided.
type Spot struct {
	ID            uuid.UUID
	SpotterID     uuid.UUID
	ImageKey      string // object storage key of the photo
	Make          *string
	Model         *string
	Year          *int
	IsChallenge   bool
	IsIdentified  bool
	CorrectAnswer *string
	RevealedAt    *time.Time
	CreatedAt     time.Time
}

// Revealed reports whether the spot's challenge has been resolved.
func (s *Spot) Revealed() bool { return s.RevealedAt != nil }

// Guess is one user's answer to a challenge spot. At most one guess per
// (spot, user) pair, enforced by the DB unique constraint. IsCorrect stays nil
// until the parent spot is revealed.
type Guess struct {
	ID        uuid.UUID
	SpotID    uuid.UUID
	UserID    uuid.UUID
	Make      string
	Model     string
	Year      *int
	IsCorrect *bool
	CreatedAt time.Time
}

// LapTime is a sim-racing lap record for the leaderboard.
type LapTime struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Sim       string // e.g. "assetto-corsa"
	Track     string
	Car       string
	TimeMS    int64
	ProofURL  *string
	CreatedAt time.Time
}

// LeaderboardRow is a lap-time leaderboard entry (best lap per user).
type LeaderboardRow struct {
	UserID   uuid.UUID
	Username string
	Car      string
	TimeMS   int64
	SetAt    time.Time
}
