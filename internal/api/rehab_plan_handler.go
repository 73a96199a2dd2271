package api

import (
	"log/slog"
	"net/http"

	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
)

// RehabPlanHandler handles rehab plan and progress HTTP requests.
type RehabPlanHandler struct {
	plans  service.RehabPlanService
	logger *slog.Logger
}

// NewRehabPlanHandler creates a RehabPlanHandler.
func NewRehabPlanHandler(plans service.RehabPlanService, logger *slog.Logger) *RehabPlanHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for RehabPlanHandler")
	}
	return &RehabPlanHandler{
		plans:  plans,
		logger: logger.With(slog.String("component", "rehab_plan_handler")),
	}
}

// GetPlan handles GET /rehab-plans/patient/{hn}.
func (h *RehabPlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	hn, ok := hospitalNumber(w, r)
	if !ok {
		return
	}
	plan, err := h.plans.GetPlan(r.Context(), hn)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get rehab plan")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, plan)
}

// SavePlan handles POST /rehab-plans/patient/{hn}, replacing any existing plan.
func (h *RehabPlanHandler) SavePlan(w http.ResponseWriter, r *http.Request) {
	hn, ok := hospitalNumber(w, r)
	if !ok {
		return
	}
	var req RehabPlanRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	plan, err := h.plans.SavePlan(r.Context(), hn, service.PlanInput{
		ShortTermGoals: req.ShortTermGoals,
		LongTermGoals:  req.LongTermGoals,
		TrainingPlan:   req.TrainingPlan,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save rehab plan")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, plan)
}

// ListProgress handles GET /rehab-plans/{hn}/progress.
func (h *RehabPlanHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	hn, ok := hospitalNumber(w, r)
	if !ok {
		return
	}
	entries, err := h.plans.ListProgress(r.Context(), hn)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

// AddProgress handles POST /rehab-plans/{hn}/progress.
func (h *RehabPlanHandler) AddProgress(w http.ResponseWriter, r *http.Request) {
	hn, ok := hospitalNumber(w, r)
	if !ok {
		return
	}
	var req ProgressRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	recordDate, err := parseDate("record_date", req.RecordDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	entry, err := h.plans.AddProgress(r.Context(), hn, service.ProgressInput{
		RecordDate: recordDate,
		Content:    req.Content,
		Score:      req.Score,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, entry)
}
