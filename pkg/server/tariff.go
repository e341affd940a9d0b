package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/smartworkshop/workshopcost/pkg/log"
)

func (s *Server) handleGetTariff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tariff, err := s.storage.GetTariff(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get tariff", slog.Any("error", err))
		writeJSONError(w, "failed to get tariff", http.StatusInternalServerError)
		return
	}
	writeJSON(ctx, w, tariff, http.StatusOK)
}

func (s *Server) handleUpdateTariff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		PeakRate    *float64 `json:"peakRate"`
		OffPeakRate *float64 `json:"offPeakRate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode tariff", slog.Any("error", err))
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// fields that are omitted keep their current value
	tariff, err := s.storage.GetTariff(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get tariff", slog.Any("error", err))
		writeJSONError(w, "failed to get tariff", http.StatusInternalServerError)
		return
	}
	if req.PeakRate != nil {
		tariff.PeakRate = *req.PeakRate
	}
	if req.OffPeakRate != nil {
		tariff.OffPeakRate = *req.OffPeakRate
	}
	if err := tariff.Validate(); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.storage.SetTariff(ctx, tariff); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to save tariff", slog.Any("error", err))
		writeJSONError(w, "failed to save tariff", http.StatusInternalServerError)
		return
	}
	log.Ctx(ctx).InfoContext(ctx, "tariff updated",
		slog.Float64("peakRate", tariff.PeakRate),
		slog.Float64("offPeakRate", tariff.OffPeakRate),
	)
	writeJSON(ctx, w, tariff, http.StatusOK)
}
