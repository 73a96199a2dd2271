package api

import (
	"log/slog"
	"net/http"

	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
)

// ScheduleHandler previews schedules and renders rounds records.
type ScheduleHandler struct {
	schedules service.ScheduleService
	roster    schedule.Roster
	logger    *slog.Logger
}

// NewScheduleHandler creates a ScheduleHandler. roster signs records whose
// request names no doctors.
func NewScheduleHandler(schedules service.ScheduleService, roster schedule.Roster, logger *slog.Logger) *ScheduleHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ScheduleHandler")
	}
	return &ScheduleHandler{
		schedules: schedules,
		roster:    roster,
		logger:    logger.With(slog.String("component", "schedule_handler")),
	}
}

// Preview handles GET /schedule?admission&discharge&mode&cadence.
func (h *ScheduleHandler) Preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := h.schedules.Preview(r.Context(), service.ScheduleRequest{
		Admission: q.Get("admission"),
		Discharge: q.Get("discharge"),
		Mode:      q.Get("mode"),
		Cadence:   q.Get("cadence"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build schedule")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ScheduleResponse{Count: len(events), Events: events})
}

// Records handles POST /schedule/records.
func (h *ScheduleHandler) Records(w http.ResponseWriter, r *http.Request) {
	var req RecordsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	roster := req.Roster
	if roster.IsZero() {
		roster = h.roster
	}

	records, err := h.schedules.Records(r.Context(), service.RecordsRequest{
		Admission: req.AdmissionDate,
		Discharge: req.DischargeDate,
		Cadence:   req.Cadence,
		Roster:    roster,
		Seed:      req.Seed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to render records")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, RecordsResponse{Count: len(records), Records: records})
}
