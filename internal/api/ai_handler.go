package api

import (
	"log/slog"
	"net/http"

	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
)

// AIHandler handles the model-backed HTTP requests.
type AIHandler struct {
	ai     service.AIService
	logger *slog.Logger
}

// NewAIHandler creates an AIHandler.
func NewAIHandler(ai service.AIService, logger *slog.Logger) *AIHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AIHandler")
	}
	return &AIHandler{
		ai:     ai,
		logger: logger.With(slog.String("component", "ai_handler")),
	}
}

// ExtractPatientInfo handles POST /ai/extract-patient-info.
func (h *AIHandler) ExtractPatientInfo(w http.ResponseWriter, r *http.Request) {
	var req ExtractPatientInfoRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	info, err := h.ai.ExtractPatientInfo(r.Context(), req.InitialNote)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to extract patient information")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, info)
}

// GenerateNote handles POST /ai/generate-note. The draft is returned, not
// saved.
func (h *AIHandler) GenerateNote(w http.ResponseWriter, r *http.Request) {
	var req GenerateNoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	recordDate, err := parseDate("record_date", req.RecordDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	useKnowledge := true
	if req.UseKnowledgeBase != nil {
		useKnowledge = *req.UseKnowledgeBase
	}

	note, err := h.ai.GenerateNote(r.Context(), service.GenerateNoteInput{
		HospitalNumber:   req.HospitalNumber,
		RecordDate:       recordDate,
		RecordType:       req.RecordType,
		DailyCondition:   req.DailyCondition,
		UseKnowledgeBase: useKnowledge,
		Roster:           req.DoctorInfo,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate note")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("note drafted",
		slog.Int("day_number", note.DayNumber),
		slog.Int("knowledge_used", note.KnowledgeUsed))
	shared.RespondWithJSON(w, r, http.StatusOK, note)
}

// GenerateRehabPlan handles POST /ai/generate-rehab-plan. The drafted plan
// becomes the patient's plan.
func (h *AIHandler) GenerateRehabPlan(w http.ResponseWriter, r *http.Request) {
	var req GenerateRehabPlanRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	plan, err := h.ai.GenerateRehabPlan(r.Context(), req.HospitalNumber)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate rehab plan")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, plan)
}
