package handlers

import (
	"darp-checker/internal/api/dto"
	"darp-checker/internal/ports"
	"net/http"

	"github.com/rs/zerolog"
)

// ResultHandler exposes stored batch results.
type ResultHandler struct {
	Results ports.CheckResultQuery
}

func (h *ResultHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Results == nil {
		writeError(w, r, http.StatusServiceUnavailable, "result storage is not configured")
		return
	}

	runID := r.PathValue("runID")
	records, err := h.Results.ListResults(r.Context(), runID)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("run_id", runID).Msg("list results failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListCheckRecordsResponse{
		RunID:   runID,
		Results: make([]dto.CheckRecordResponse, 0, len(records)),
	}
	for _, rec := range records {
		res.Results = append(res.Results, dto.CheckRecordResponse{
			SolutionPath:              rec.SolutionPath,
			InstancePath:              rec.InstancePath,
			Area:                      rec.Area,
			OK:                        rec.OK,
			PlanDepartureTimeFailures: rec.PlanDepartureTimeFailures,
			Violations:                rec.Violations,
			Warnings:                  rec.Warnings,
			Cost:                      rec.Cost,
			CheckedAt:                 rec.CheckedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
