package api

import (
	"log/slog"
	"net/http"

	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
)

// NoteHandler handles progress note HTTP requests.
type NoteHandler struct {
	notes  service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(notes service.NoteService, logger *slog.Logger) *NoteHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NoteHandler")
	}
	return &NoteHandler{
		notes:  notes,
		logger: logger.With(slog.String("component", "note_handler")),
	}
}

// ListNotes handles GET /notes/patient/{hn}?limit=.
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	hn, ok := hospitalNumber(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultNoteListLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	notes, err := h.notes.ListNotes(r.Context(), hn, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list notes")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, notes)
}

// CreateNote handles POST /notes.
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	recordDate, err := parseDate("record_date", req.RecordDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	note, err := h.notes.CreateNote(r.Context(), service.NoteInput{
		HospitalNumber:   req.HospitalNumber,
		RecordDate:       recordDate,
		RecordType:       req.RecordType,
		DailyCondition:   req.DailyCondition,
		GeneratedContent: req.GeneratedContent,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create note")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, note)
}

// GetNote handles GET /notes/{id}.
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	note, err := h.notes.GetNote(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get note")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, note)
}

// UpdateNote handles PUT /notes/{id}. Changing the content marks the note
// edited.
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateNoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	note, err := h.notes.UpdateNote(r.Context(), id, service.NoteUpdate{
		DailyCondition:   req.DailyCondition,
		GeneratedContent: req.GeneratedContent,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update note")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, note)
}
