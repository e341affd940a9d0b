package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/smartworkshop/workshopcost/pkg/log"
	"github.com/smartworkshop/workshopcost/pkg/storage"
	"github.com/smartworkshop/workshopcost/pkg/types"
)

// AddMachineReq is the request body for adding a machine. Every field is
// required.
type AddMachineReq struct {
	Name           string   `json:"name"`
	PowerRating    *float64 `json:"powerRating"`
	OperatingHours *float64 `json:"operatingHours"`
	PeakPercentage *float64 `json:"peakPercentage"`
}

func (s *Server) handleListMachines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	machines, err := s.storage.ListMachines(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list machines", slog.Any("error", err))
		writeJSONError(w, "failed to list machines", http.StatusInternalServerError)
		return
	}
	if machines == nil {
		machines = []types.Machine{}
	}
	writeJSON(ctx, w, machines, http.StatusOK)
}

func (s *Server) handleAddMachine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddMachineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode machine", slog.Any("error", err))
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.PowerRating == nil || req.OperatingHours == nil || req.PeakPercentage == nil {
		writeJSONError(w, "name, powerRating, operatingHours and peakPercentage are required", http.StatusBadRequest)
		return
	}

	machine, err := types.NewMachine(req.Name, *req.PowerRating, *req.OperatingHours, *req.PeakPercentage)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.storage.AddMachine(ctx, machine); err != nil {
		if errors.Is(err, storage.ErrMachineExists) {
			writeJSONError(w, "machine already exists", http.StatusConflict)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to add machine", slog.Any("error", err))
		writeJSONError(w, "failed to add machine", http.StatusInternalServerError)
		return
	}
	s.metrics.machinesChanged.WithLabelValues("add").Inc()
	log.Ctx(ctx).InfoContext(ctx, "machine added", slog.String("machineID", machine.ID), slog.String("name", machine.Name))

	writeJSON(ctx, w, machine, http.StatusCreated)
}

func (s *Server) handleRemoveMachine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := s.storage.RemoveMachine(ctx, id); err != nil {
		if errors.Is(err, storage.ErrMachineNotFound) {
			writeJSONError(w, "machine not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, types.ErrInvalidInput) {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to remove machine", slog.String("machineID", id), slog.Any("error", err))
		writeJSONError(w, "failed to remove machine", http.StatusInternalServerError)
		return
	}
	s.metrics.machinesChanged.WithLabelValues("remove").Inc()
	log.Ctx(ctx).InfoContext(ctx, "machine removed", slog.String("machineID", id))

	w.WriteHeader(http.StatusNoContent)
}
