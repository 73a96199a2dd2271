package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
)

// ReminderHandler handles reminder HTTP requests.
type ReminderHandler struct {
	reminders service.ReminderService
	logger    *slog.Logger
}

// NewReminderHandler creates a ReminderHandler.
func NewReminderHandler(reminders service.ReminderService, logger *slog.Logger) *ReminderHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReminderHandler")
	}
	return &ReminderHandler{
		reminders: reminders,
		logger:    logger.With(slog.String("component", "reminder_handler")),
	}
}

// TodayReminders handles GET /reminders/today?priority=.
func (h *ReminderHandler) TodayReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminders.TodayReminders(r.Context(), r.URL.Query().Get("priority"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list reminders")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, reminders)
}

// CompleteReminder handles PUT /reminders/{id}/complete.
func (h *ReminderHandler) CompleteReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	reminder, err := h.reminders.CompleteReminder(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete reminder")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CompleteReminderResponse{
		Message:  "Reminder completed",
		Reminder: reminder,
	})
}

// PatientReminders handles GET /reminders/patient/{hn}?upcoming=.
func (h *ReminderHandler) PatientReminders(w http.ResponseWriter, r *http.Request) {
	hn, ok := hospitalNumber(w, r)
	if !ok {
		return
	}
	upcoming, err := queryBool(r, "upcoming")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	reminders, err := h.reminders.PatientReminders(r.Context(), hn, upcoming)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list reminders")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, reminders)
}

// InitializeReminders handles POST /reminders/patient/{hn}/initialize. A
// patient that already has reminders gets none added.
func (h *ReminderHandler) InitializeReminders(w http.ResponseWriter, r *http.Request) {
	hn, ok := hospitalNumber(w, r)
	if !ok {
		return
	}
	result, err := h.reminders.InitializeReminders(r.Context(), hn)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to initialize reminders")
		return
	}

	if result.Existing > 0 {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("reminders already present",
			slog.Int("existing", result.Existing))
		shared.RespondWithJSON(w, r, http.StatusOK, InitializeRemindersResponse{
			Message:   fmt.Sprintf("Patient already has %d reminders", result.Existing),
			Count:     0,
			Reminders: result.Created,
		})
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, InitializeRemindersResponse{
		Message:   fmt.Sprintf("Created %d reminders", len(result.Created)),
		Count:     len(result.Created),
		Reminders: result.Created,
	})
}
