package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/service"
)

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad id", errs.ErrValidation)
	}
	return id, nil
}

type vehicleRequest struct {
	Name         string  `json:"name"`
	GenerationID *string `json:"generationId"`
	Horsepower   *int    `json:"horsepower"`
	Torque       *int    `json:"torque"`
}

func (req vehicleRequest) toInput() (service.VehicleInput, error) {
	in := service.VehicleInput{
		Name:       req.Name,
		Horsepower: req.Horsepower,
		Torque:     req.Torque,
	}
	if req.GenerationID != nil {
		gid, err := uuid.FromString(*req.GenerationID)
		if err != nil {
			return in, fmt.Errorf("%w: bad generation id", errs.ErrValidation)
		}
		in.GenerationID = &gid
	}
	return in, nil
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	var req vehicleRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.writeError(w, err)
		return
	}
	v, err := s.garage.CreateVehicle(r.Context(), caller, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleDTO(*v))
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	v, err := s.garage.GetVehicle(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleDTO(*v))
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req vehicleRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.writeError(w, err)
		return
	}
	v, err := s.garage.UpdateVehicle(r.Context(), caller, id, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleDTO(*v))
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.garage.DeleteVehicle(r.Context(), caller, id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	ownerID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	vehicles, err := s.garage.ListVehicles(r.Context(), ownerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]vehicleDTO, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toVehicleDTO(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVehicleRankings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rankings, err := s.rankings.VehicleRankings(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankings)
}

type historyRequest struct {
	Title      string    `json:"title"`
	CostCents  *int64    `json:"costCents"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (s *Server) handleAddHistory(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	vehicleID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req historyRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	h, err := s.garage.AddHistory(r.Context(), caller, vehicleID, service.HistoryInput{
		Title:      req.Title,
		CostCents:  req.CostCents,
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHistoryDTO(*h))
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	entryID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.garage.DeleteHistory(r.Context(), caller, entryID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	entries, err := s.garage.ListHistory(r.Context(), vehicleID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]historyDTO, 0, len(entries))
	for _, h := range entries {
		out = append(out, toHistoryDTO(h))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMakes(w http.ResponseWriter, r *http.Request) {
	makes, err := s.makes.Makes(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, makes)
}

func (s *Server) handleNewUpload(w http.ResponseWriter, r *http.Request, _ service.Caller) {
	key, url, err := s.images.PresignUpload(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"key": key, "uploadUrl": url})
}
