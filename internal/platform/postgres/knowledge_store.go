package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

// PostgresKnowledgeStore implements store.KnowledgeDocumentStore.
type PostgresKnowledgeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresKnowledgeStore creates a knowledge document store.
func NewPostgresKnowledgeStore(db store.DBTX, logger *slog.Logger) *PostgresKnowledgeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresKnowledgeStore{
		db:     db,
		logger: logger.With(slog.String("component", "knowledge_store")),
	}
}

var _ store.KnowledgeDocumentStore = (*PostgresKnowledgeStore)(nil)

func (s *PostgresKnowledgeStore) Create(ctx context.Context, d *domain.KnowledgeDocument) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := d.Validate(); err != nil {
		log.Warn("document validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO knowledge_documents (id, filename, content_type, text, size, chunk_count,
			status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		d.ID,
		d.Filename,
		d.ContentType,
		d.Text,
		d.Size,
		d.ChunkCount,
		string(d.Status),
		d.Error,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create document",
			slog.String("error", err.Error()),
			slog.String("document_id", d.ID.String()))
		return MapError(err)
	}

	log.Info("knowledge document stored",
		slog.String("document_id", d.ID.String()),
		slog.String("filename", d.Filename),
		slog.Int("size", d.Size))
	return nil
}

// GetByID loads the document with its text.
func (s *PostgresKnowledgeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.KnowledgeDocument, error) {
	query := `
		SELECT id, filename, content_type, text, size, chunk_count, status, error_message,
			created_at, updated_at
		FROM knowledge_documents
		WHERE id = $1
	`

	var d domain.KnowledgeDocument
	var status string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.Text,
		&d.Size,
		&d.ChunkCount,
		&status,
		&d.Error,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDocumentNotFound
		}
		return nil, MapError(err)
	}

	d.Status = domain.DocumentStatus(status)
	return &d, nil
}

// List returns documents newest first. Text is not loaded.
func (s *PostgresKnowledgeStore) List(ctx context.Context) ([]*domain.KnowledgeDocument, error) {
	query := `
		SELECT id, filename, content_type, size, chunk_count, status, error_message,
			created_at, updated_at
		FROM knowledge_documents
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	docs := []*domain.KnowledgeDocument{}
	for rows.Next() {
		var d domain.KnowledgeDocument
		var status string
		if err := rows.Scan(
			&d.ID,
			&d.Filename,
			&d.ContentType,
			&d.Size,
			&d.ChunkCount,
			&status,
			&d.Error,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		d.Status = domain.DocumentStatus(status)
		docs = append(docs, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}

	return docs, nil
}

// UpdateStatus writes status, chunk count and error message.
func (s *PostgresKnowledgeStore) UpdateStatus(ctx context.Context, d *domain.KnowledgeDocument) error {
	query := `
		UPDATE knowledge_documents
		SET status = $1, chunk_count = $2, error_message = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query, string(d.Status), d.ChunkCount, d.Error, d.UpdatedAt, d.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update document status",
			slog.String("error", err.Error()),
			slog.String("document_id", d.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrDocumentNotFound)
}

func (s *PostgresKnowledgeStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM knowledge_documents WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrDocumentNotFound)
}

func (s *PostgresKnowledgeStore) WithTx(tx *sql.Tx) store.KnowledgeDocumentStore {
	return &PostgresKnowledgeStore{db: tx, logger: s.logger}
}
