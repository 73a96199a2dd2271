package api

import (
	"log/slog"
	"net/http"

	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
)

// KnowledgeHandler handles knowledge base HTTP requests.
type KnowledgeHandler struct {
	knowledge      service.KnowledgeService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewKnowledgeHandler creates a KnowledgeHandler.
func NewKnowledgeHandler(knowledge service.KnowledgeService, maxUploadBytes int64, logger *slog.Logger) *KnowledgeHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for KnowledgeHandler")
	}
	return &KnowledgeHandler{
		knowledge:      knowledge,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "knowledge_handler")),
	}
}

// ListFiles handles GET /knowledge/files.
func (h *KnowledgeHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	docs, err := h.knowledge.ListFiles(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list knowledge files")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, docs)
}

// Upload handles POST /knowledge/upload. Indexing continues in the background,
// so the response is 202 with the pending document.
func (h *KnowledgeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Expected a multipart/form-data upload")
		return
	}
	filename, data, err := readUpload(w, r, h.maxUploadBytes)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read upload")
		return
	}
	doc, err := h.knowledge.Upload(r.Context(), filename, data)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to upload document")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, doc)
}

// DeleteFile handles DELETE /knowledge/files/{id}.
func (h *KnowledgeHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.knowledge.DeleteFile(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /knowledge/search.
func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req KnowledgeSearchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	hits, err := h.knowledge.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to search knowledge base")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, hits)
}
