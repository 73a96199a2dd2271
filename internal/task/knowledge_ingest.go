package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNilIngester      = errors.New("document ingester cannot be nil")
	ErrEmptyDocumentID  = errors.New("document ID cannot be empty")
	ErrWrongTaskPayload = errors.New("task payload does not match task type")
)

// DocumentIngester chunks, embeds and indexes a stored knowledge document.
type DocumentIngester interface {
	IngestDocument(ctx context.Context, documentID uuid.UUID) error
}

// KnowledgeIngestPayload is the JSON payload of a knowledge_ingest task.
type KnowledgeIngestPayload struct {
	DocumentID uuid.UUID `json:"document_id"`
}

// KnowledgeIngestTask ingests one knowledge document.
type KnowledgeIngestTask struct {
	id         uuid.UUID
	documentID uuid.UUID
	payload    []byte
	status     TaskStatus
	ingester   DocumentIngester
}

var _ Task = (*KnowledgeIngestTask)(nil)

// NewKnowledgeIngestTask creates a pending task for documentID.
func NewKnowledgeIngestTask(documentID uuid.UUID, ingester DocumentIngester) (*KnowledgeIngestTask, error) {
	return newKnowledgeIngestTask(uuid.New(), documentID, ingester)
}

func newKnowledgeIngestTask(id, documentID uuid.UUID, ingester DocumentIngester) (*KnowledgeIngestTask, error) {
	if ingester == nil {
		return nil, ErrNilIngester
	}
	if documentID == uuid.Nil {
		return nil, ErrEmptyDocumentID
	}
	payload, err := json.Marshal(KnowledgeIngestPayload{DocumentID: documentID})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return &KnowledgeIngestTask{
		id:         id,
		documentID: documentID,
		payload:    payload,
		status:     TaskStatusPending,
		ingester:   ingester,
	}, nil
}

// KnowledgeIngestFactory rebuilds knowledge_ingest tasks from their records,
// keeping the stored task ID.
func KnowledgeIngestFactory(ingester DocumentIngester) Factory {
	return func(rec Record) (Task, error) {
		if rec.Type != TaskTypeKnowledgeIngest {
			return nil, fmt.Errorf("%w: %s", ErrWrongTaskPayload, rec.Type)
		}
		var p KnowledgeIngestPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWrongTaskPayload, err)
		}
		id := rec.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		return newKnowledgeIngestTask(id, p.DocumentID, ingester)
	}
}

func (t *KnowledgeIngestTask) ID() uuid.UUID { return t.id }
func (t *KnowledgeIngestTask) Type() string { return TaskTypeKnowledgeIngest }
func (t *KnowledgeIngestTask) Payload() []byte { return t.payload }
func (t *KnowledgeIngestTask) Status() TaskStatus { return t.status }
func (t *KnowledgeIngestTask) DocumentID() uuid.UUID { return t.documentID }

// Execute runs the ingestion.
func (t *KnowledgeIngestTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	if err := t.ingester.IngestDocument(ctx, t.documentID); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("ingest document %s: %w", t.documentID, err)
	}
	t.status = TaskStatusCompleted
	return nil
}
