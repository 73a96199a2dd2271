package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/phrase"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

// DefaultMaxCorpusRunes caps the corpus accepted by ExtractPhrases.
const DefaultMaxCorpusRunes = 500000

// TemplateInput holds the fields of a new template. An empty Name is derived
// from the content.
type TemplateInput struct {
	Category string
	Name     string
	Content  string
}

// PhraseItem is one phrase to save as a template.
type PhraseItem struct {
	Content  string
	Category string
}

// PhraseExtraction is the outcome of ExtractPhrases.
type PhraseExtraction struct {
	Phrases []generation.ClassifiedPhrase
	// Preprocessed is the number of candidates the pipeline produced.
	Preprocessed int
	Message      string
}

// PhraseObserver is told how many candidates each extraction produced.
type PhraseObserver interface {
	ObservePhrasesExtracted(n int)
}

// TemplateService manages phrase templates.
type TemplateService interface {
	// ListTemplates returns templates by usage; an empty category returns all.
	ListTemplates(ctx context.Context, category string) ([]*domain.Template, error)
	CreateTemplate(ctx context.Context, in TemplateInput) (*domain.Template, error)
	// UpdateTemplate rejects system templates with domain.ErrSystemTemplate.
	UpdateTemplate(ctx context.Context, id uuid.UUID, in TemplateInput) (*domain.Template, error)
	// DeleteTemplate rejects system templates with domain.ErrSystemTemplate.
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
	// UseTemplate increments the usage count and returns the new count.
	UseTemplate(ctx context.Context, id uuid.UUID) (int, error)

	// ExtractPhrases reduces a corpus to frequent phrases and has the model
	// polish and classify them. An empty pipeline result is not an error.
	ExtractPhrases(ctx context.Context, corpus string) (*PhraseExtraction, error)

	// BatchCreate saves phrases as templates in one transaction, skipping
	// empty contents, and returns the number created.
	BatchCreate(ctx context.Context, items []PhraseItem) (int, error)
}

type templateServiceImpl struct {
	db             *sql.DB
	templates      store.TemplateStore
	pipeline       *phrase.Pipeline
	generator      Generator
	observer       PhraseObserver
	maxCorpusRunes int
	logger         *slog.Logger
}

// TemplateServiceConfig tunes phrase extraction.
type TemplateServiceConfig struct {
	Pipeline       phrase.Options
	MaxCorpusRunes int
}

// NewTemplateService creates a TemplateService. observer may be nil.
func NewTemplateService(
	db *sql.DB,
	templates store.TemplateStore,
	generator Generator,
	observer PhraseObserver,
	cfg TemplateServiceConfig,
	logger *slog.Logger,
) (TemplateService, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if templates == nil {
		return nil, errors.New("templates cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if cfg.MaxCorpusRunes <= 0 {
		cfg.MaxCorpusRunes = DefaultMaxCorpusRunes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &templateServiceImpl{
		db:             db,
		templates:      templates,
		pipeline:       phrase.NewPipeline(cfg.Pipeline),
		generator:      generator,
		observer:       observer,
		maxCorpusRunes: cfg.MaxCorpusRunes,
		logger:         logger.With(slog.String("component", "template_service")),
	}, nil
}

func (s *templateServiceImpl) ListTemplates(ctx context.Context, category string) ([]*domain.Template, error) {
	templates, err := s.templates.List(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, NewServiceError("list_templates", "failed to list templates", err)
	}
	return templates, nil
}

func (s *templateServiceImpl) CreateTemplate(ctx context.Context, in TemplateInput) (*domain.Template, error) {
	t, err := domain.NewTemplate(in.Category, in.Name, in.Content)
	if err != nil {
		return nil, NewServiceError("create_template", "invalid template", err)
	}
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, NewServiceError("create_template", "failed to save template", err)
	}
	return t, nil
}

func (s *templateServiceImpl) UpdateTemplate(ctx context.Context, id uuid.UUID, in TemplateInput) (*domain.Template, error) {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("update_template", "failed to load template", err)
	}
	if err := t.Update(in.Category, in.Name, in.Content); err != nil {
		return nil, NewServiceError("update_template", "template cannot be updated", err)
	}
	if err := s.templates.Update(ctx, t); err != nil {
		return nil, NewServiceError("update_template", "failed to save template", err)
	}
	return t, nil
}

func (s *templateServiceImpl) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return NewServiceError("delete_template", "failed to load template", err)
	}
	if err := t.CanDelete(); err != nil {
		return NewServiceError("delete_template", "template cannot be deleted", err)
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return NewServiceError("delete_template", "failed to delete template", err)
	}
	return nil
}

func (s *templateServiceImpl) UseTemplate(ctx context.Context, id uuid.UUID) (int, error) {
	count, err := s.templates.IncrementUsage(ctx, id)
	if err != nil {
		return 0, NewServiceError("use_template", "failed to record usage", err)
	}
	return count, nil
}

func (s *templateServiceImpl) ExtractPhrases(ctx context.Context, corpus string) (*PhraseExtraction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	runes := len([]rune(corpus))
	if runes > s.maxCorpusRunes {
		return nil, invalidInput("extract_phrases", "content",
			fmt.Sprintf("exceeds %d characters", s.maxCorpusRunes))
	}

	result := s.pipeline.Extract(corpus)
	if s.observer != nil {
		s.observer.ObservePhrasesExtracted(len(result.Candidates))
	}
	log.InfoContext(ctx, "phrase pipeline finished",
		slog.Int("corpus_runes", runes),
		slog.Int("candidates", len(result.Candidates)),
		slog.Int("rendered", result.Rendered))

	if result.IsEmpty() {
		return &PhraseExtraction{
			Phrases: []generation.ClassifiedPhrase{},
			Message: "未能从文档中提取到有效语句",
		}, nil
	}

	phrases, err := s.generator.ClassifyPhrases(ctx, result.Block)
	if err != nil {
		return nil, NewServiceError("extract_phrases", "failed to classify phrases", err)
	}

	return &PhraseExtraction{
		Phrases:      phrases,
		Preprocessed: len(result.Candidates),
		Message: fmt.Sprintf("从文档中预处理提取了 %d 条语句，AI优化分类后返回 %d 条",
			len(result.Candidates), len(phrases)),
	}, nil
}

func (s *templateServiceImpl) BatchCreate(ctx context.Context, items []PhraseItem) (int, error) {
	templates := make([]*domain.Template, 0, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Content) == "" {
			continue
		}
		t, err := domain.NewTemplate(item.Category, "", item.Content)
		if err != nil {
			return 0, NewServiceError("batch_create_templates", fmt.Sprintf("invalid phrase %d", i), err)
		}
		templates = append(templates, t)
	}
	if len(templates) == 0 {
		return 0, nil
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.templates.WithTx(tx).CreateMultiple(ctx, templates)
	})
	if err != nil {
		return 0, NewServiceError("batch_create_templates", "failed to save templates", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "templates created",
		slog.Int("count", len(templates)),
		slog.Int("skipped", len(items)-len(templates)))
	return len(templates), nil
}
