package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

const templateColumns = `id, category, template_name, content, is_system, usage_count, created_at, updated_at`

const templateColumnCount = 8

// PostgresTemplateStore implements store.TemplateStore.
type PostgresTemplateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTemplateStore creates a template store.
func NewPostgresTemplateStore(db store.DBTX, logger *slog.Logger) *PostgresTemplateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTemplateStore{
		db:     db,
		logger: logger.With(slog.String("component", "template_store")),
	}
}

var _ store.TemplateStore = (*PostgresTemplateStore)(nil)

func (s *PostgresTemplateStore) Create(ctx context.Context, t *domain.Template) error {
	return s.CreateMultiple(ctx, []*domain.Template{t})
}

// CreateMultiple inserts the templates in one statement.
func (s *PostgresTemplateStore) CreateMultiple(ctx context.Context, templates []*domain.Template) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(templates) == 0 {
		return nil
	}

	values := make([]string, 0, len(templates))
	args := make([]interface{}, 0, len(templates)*templateColumnCount)
	for i, t := range templates {
		if err := t.Validate(); err != nil {
			log.Warn("template validation failed during create",
				slog.String("error", err.Error()),
				slog.Int("index", i))
			return err
		}

		placeholders := make([]string, templateColumnCount)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", i*templateColumnCount+j+1)
		}
		values = append(values, "("+strings.Join(placeholders, ", ")+")")
		args = append(args, t.ID, t.Category, t.Name, t.Content, t.IsSystem, t.UsageCount, t.CreatedAt, t.UpdatedAt)
	}

	query := `INSERT INTO templates (` + templateColumns + `) VALUES ` + strings.Join(values, ", ")
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create templates",
			slog.String("error", err.Error()),
			slog.Int("count", len(templates)))
		return MapError(err)
	}

	return nil
}

// GetByID returns store.ErrTemplateNotFound for an unknown id.
func (s *PostgresTemplateStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = $1`

	t, err := scanTemplate(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTemplateNotFound
		}
		return nil, MapError(err)
	}
	return t, nil
}

// List returns templates most used first. An empty category lists all.
func (s *PostgresTemplateStore) List(ctx context.Context, category string) ([]*domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates`
	var args []interface{}
	if c := strings.TrimSpace(category); c != "" {
		query += ` WHERE category = $1`
		args = append(args, c)
	}
	query += ` ORDER BY usage_count DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list templates",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	templates := []*domain.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}

	return templates, nil
}

func (s *PostgresTemplateStore) Update(ctx context.Context, t *domain.Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE templates
		SET category = $1, template_name = $2, content = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query, t.Category, t.Name, t.Content, t.UpdatedAt, t.ID)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTemplateNotFound)
}

func (s *PostgresTemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTemplateNotFound)
}

// IncrementUsage bumps the usage count atomically and returns the new value.
func (s *PostgresTemplateStore) IncrementUsage(ctx context.Context, id uuid.UUID) (int, error) {
	query := `UPDATE templates SET usage_count = usage_count + 1 WHERE id = $1 RETURNING usage_count`

	var count int
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, store.ErrTemplateNotFound
		}
		return 0, MapError(err)
	}
	return count, nil
}

func (s *PostgresTemplateStore) WithTx(tx *sql.Tx) store.TemplateStore {
	return &PostgresTemplateStore{db: tx, logger: s.logger}
}

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var t domain.Template
	err := row.Scan(
		&t.ID,
		&t.Category,
		&t.Name,
		&t.Content,
		&t.IsSystem,
		&t.UsageCount,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
