// Package httpserver exposes the MachineBio JSON API.
package httpserver

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/machinebio/machinebio/internal/catalog"
	"github.com/machinebio/machinebio/internal/service"
)

// ImageStore issues presigned URLs for spot photos.
type ImageStore interface {
	PresignUpload(ctx context.Context) (key, url string, err error)
	PresignView(ctx context.Context, key string) (string, error)
}

// MakesSource serves the manufacturer list.
type MakesSource interface {
	Makes(ctx context.Context) ([]catalog.Make, error)
}

// Server wires services into HTTP handlers.
type Server struct {
	log      *zap.Logger
	auth     service.AuthService
	garage   service.GarageService
	rankings service.RankingService
	spots    service.SpotService
	laps     service.LapTimeService
	makes    MakesSource
	images   ImageStore
	signKey  []byte
}

// New constructs a Server with injected services.
func New(
	log *zap.Logger,
	auth service.AuthService,
	garage service.GarageService,
	rankings service.RankingService,
	spots service.SpotService,
	laps service.LapTimeService,
	makes MakesSource,
	images ImageStore,
	signKey []byte,
) *Server {
	return &Server{
		log:      log,
		auth:     auth,
		garage:   garage,
		rankings: rankings,
		spots:    spots,
		laps:     laps,
		makes:    makes,
		images:   images,
		signKey:  signKey,
	}
}

// Handler builds the route table wrapped in recovery and access-log middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.HandleFunc("GET /api/catalog/makes", s.handleMakes)
	mux.HandleFunc("POST /api/uploads", s.requireAuth(s.handleNewUpload))

	mux.HandleFunc("POST /api/vehicles", s.requireAuth(s.handleCreateVehicle))
	mux.HandleFunc("GET /api/vehicles/{id}", s.handleGetVehicle)
	mux.HandleFunc("PUT /api/vehicles/{id}", s.requireAuth(s.handleUpdateVehicle))
	mux.HandleFunc("DELETE /api/vehicles/{id}", s.requireAuth(s.handleDeleteVehicle))
	mux.HandleFunc("GET /api/vehicles/{id}/rankings", s.handleVehicleRankings)
	mux.HandleFunc("GET /api/vehicles/{id}/history", s.handleListHistory)
	mux.HandleFunc("POST /api/vehicles/{id}/history", s.requireAuth(s.handleAddHistory))
	mux.HandleFunc("DELETE /api/history/{id}", s.requireAuth(s.handleDeleteHistory))
	mux.HandleFunc("GET /api/users/{id}/vehicles", s.handleListVehicles)

	mux.HandleFunc("POST /api/spots", s.requireAuth(s.handleCreateSpot))
	mux.HandleFunc("GET /api/spots", s.handleListSpots)
	mux.HandleFunc("GET /api/spots/{id}", s.handleGetSpot)
	mux.HandleFunc("POST /api/spots/{id}/guesses", s.requireAuth(s.handleSubmitGuess))
	mux.HandleFunc("POST /api/spots/{id}/reveal", s.requireAuth(s.handleRevealSpot))

	mux.HandleFunc("POST /api/laptimes", s.requireAuth(s.handleSubmitLap))
	mux.HandleFunc("GET /api/laptimes/leaderboard", s.handleLeaderboard)

	return s.recoverMiddleware(s.logMiddleware(mux))
}
