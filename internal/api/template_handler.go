package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/rehabdesk/rehabdesk-api/internal/knowledge"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
)

// TemplateHandler handles template and phrase extraction HTTP requests.
type TemplateHandler struct {
	templates      service.TemplateService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewTemplateHandler creates a TemplateHandler. maxUploadBytes bounds corpus
// uploads.
func NewTemplateHandler(templates service.TemplateService, maxUploadBytes int64, logger *slog.Logger) *TemplateHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TemplateHandler")
	}
	return &TemplateHandler{
		templates:      templates,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "template_handler")),
	}
}

// ListTemplates handles GET /templates?category=.
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.ListTemplates(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list templates")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, templates)
}

// CreateTemplate handles POST /templates.
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	tmpl, err := h.templates.CreateTemplate(r.Context(), service.TemplateInput{
		Category: req.Category,
		Name:     req.Name,
		Content:  req.Content,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create template")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, tmpl)
}

// UpdateTemplate handles PUT /templates/{id}. System templates are read-only.
func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req TemplateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	tmpl, err := h.templates.UpdateTemplate(r.Context(), id, service.TemplateInput{
		Category: req.Category,
		Name:     req.Name,
		Content:  req.Content,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update template")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tmpl)
}

// DeleteTemplate handles DELETE /templates/{id}.
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.templates.DeleteTemplate(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UseTemplate handles POST /templates/{id}/use.
func (h *TemplateHandler) UseTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	count, err := h.templates.UseTemplate(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record template use")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, UseTemplateResponse{
		Message:    "Template usage recorded",
		UsageCount: count,
	})
}

// ExtractPhrases handles POST /templates/extract-phrases. The corpus is either
// an uploaded text document or the content field of a JSON body.
func (h *TemplateHandler) ExtractPhrases(w http.ResponseWriter, r *http.Request) {
	corpus, ok := h.readCorpus(w, r)
	if !ok {
		return
	}

	result, err := h.templates.ExtractPhrases(r.Context(), corpus)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to extract phrases")
		return
	}

	message := result.Message
	if message == "" {
		message = fmt.Sprintf("Preprocessed %d candidates, %d phrases classified",
			result.Preprocessed, len(result.Phrases))
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("phrases extracted",
		slog.Int("preprocessed", result.Preprocessed),
		slog.Int("phrases", len(result.Phrases)))
	shared.RespondWithJSON(w, r, http.StatusOK, ExtractPhrasesResponse{
		Phrases:          result.Phrases,
		TotalExtracted:   len(result.Phrases),
		PreprocessedFrom: result.Preprocessed,
		Message:          message,
	})
}

func (h *TemplateHandler) readCorpus(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !isMultipart(r) {
		var req ExtractPhrasesRequest
		if !decodeAndValidate(w, r, &req) {
			return "", false
		}
		return req.Content, true
	}

	filename, data, err := readUpload(w, r, h.maxUploadBytes)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read upload")
		return "", false
	}
	text, _, err := knowledge.ExtractText(filename, data)
	if errors.Is(err, knowledge.ErrNoText) {
		return "", true
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read upload")
		return "", false
	}
	return text, true
}

// BatchCreate handles POST /templates/batch.
func (h *TemplateHandler) BatchCreate(w http.ResponseWriter, r *http.Request) {
	var req BatchTemplatesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	items := make([]service.PhraseItem, 0, len(req.Phrases))
	for _, p := range req.Phrases {
		items = append(items, service.PhraseItem{Content: p.Content, Category: p.Category})
	}

	count, err := h.templates.BatchCreate(r.Context(), items)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create templates")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, BatchTemplatesResponse{
		Message: fmt.Sprintf("Created %d templates", count),
		Count:   count,
	})
}
