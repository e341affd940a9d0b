package server

import (
	"log/slog"
	"net/http"

	"github.com/smartworkshop/workshopcost/pkg/cost"
	"github.com/smartworkshop/workshopcost/pkg/log"
)

// handleReport recomputes the cost of every machine under the current tariff.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tariff, err := s.storage.GetTariff(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get tariff", slog.Any("error", err))
		writeJSONError(w, "failed to get tariff", http.StatusInternalServerError)
		return
	}
	machines, err := s.storage.ListMachines(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list machines", slog.Any("error", err))
		writeJSONError(w, "failed to list machines", http.StatusInternalServerError)
		return
	}

	report := cost.BuildReport(machines, tariff)
	s.metrics.observeReport(report)
	log.Ctx(ctx).DebugContext(ctx, "computed report",
		slog.Int("machines", len(report.Results)),
		slog.Int("warnings", report.WarningCount),
		slog.Float64("totalDailyBill", report.Totals.TotalDailyBill),
	)

	writeJSON(ctx, w, report, http.StatusOK)
}
