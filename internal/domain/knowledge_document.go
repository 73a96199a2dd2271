package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentStatus represents the ingestion state of a knowledge document
type DocumentStatus string

// Possible document status values
const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Common validation errors for KnowledgeDocument
var (
	ErrEmptyDocumentFilename = errors.New("document filename cannot be empty")
	ErrEmptyDocumentText     = errors.New("document text cannot be empty")
	ErrInvalidDocumentStatus = errors.New("invalid document status")
)

// KnowledgeDocument is a reference document uploaded to the knowledge base.
// Its text is chunked and embedded by a background task.
type KnowledgeDocument struct {
	ID          uuid.UUID      `json:"id"`
	Filename    string         `json:"filename"`
	ContentType string         `json:"content_type"`
	Text        string         `json:"-"`
	Size        int            `json:"size"`
	ChunkCount  int            `json:"chunk_count"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewKnowledgeDocument creates a pending document holding extracted text.
func NewKnowledgeDocument(filename, contentType, text string) (*KnowledgeDocument, error) {
	now := time.Now().UTC()
	doc := &KnowledgeDocument{
		ID:          uuid.New(),
		Filename:    strings.TrimSpace(filename),
		ContentType: contentType,
		Text:        text,
		Size:        len(text),
		Status:      DocumentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks if the KnowledgeDocument has valid data.
func (d *KnowledgeDocument) Validate() error {
	if d.ID == uuid.Nil {
		return ErrInvalidID
	}
	if d.Filename == "" {
		return ErrEmptyDocumentFilename
	}
	if strings.TrimSpace(d.Text) == "" {
		return ErrEmptyDocumentText
	}
	if !isValidDocumentStatus(d.Status) {
		return ErrInvalidDocumentStatus
	}
	return nil
}

// UpdateStatus updates the document's status and UpdatedAt timestamp.
func (d *KnowledgeDocument) UpdateStatus(status DocumentStatus) error {
	if !isValidDocumentStatus(status) {
		return ErrInvalidDocumentStatus
	}
	d.Status = status
	d.UpdatedAt = time.Now().UTC()
	return nil
}

func isValidDocumentStatus(status DocumentStatus) bool {
	switch status {
	case DocumentStatusPending, DocumentStatusProcessing, DocumentStatusCompleted, DocumentStatusFailed:
		return true
	default:
		return false
	}
}
