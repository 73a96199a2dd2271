package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TemplateNameRunes is how much of the content a derived template name keeps.
const TemplateNameRunes = 20

// Common validation errors for Template
var (
	ErrEmptyTemplateCategory = errors.New("template category cannot be empty")
	ErrEmptyTemplateName     = errors.New("template name cannot be empty")
	ErrEmptyTemplateContent  = errors.New("template content cannot be empty")
	ErrSystemTemplate        = errors.New("system templates cannot be modified")
)

// Template is a reusable phrase clinicians insert into notes.
type Template struct {
	ID         uuid.UUID `json:"id"`
	Category   string    `json:"category"`
	Name       string    `json:"template_name"`
	Content    string    `json:"content"`
	IsSystem   bool      `json:"is_system"`
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewTemplate creates a user template. An empty name is derived from the content.
func NewTemplate(category, name, content string) (*Template, error) {
	content = strings.TrimSpace(content)
	if strings.TrimSpace(name) == "" {
		name = TemplateNameFromContent(content)
	}

	now := time.Now().UTC()
	t := &Template{
		ID:        uuid.New(),
		Category:  strings.TrimSpace(category),
		Name:      strings.TrimSpace(name),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks if the Template has valid data.
func (t *Template) Validate() error {
	if t.ID == uuid.Nil {
		return ErrInvalidID
	}
	if t.Category == "" {
		return ErrEmptyTemplateCategory
	}
	if t.Name == "" {
		return ErrEmptyTemplateName
	}
	if t.Content == "" {
		return ErrEmptyTemplateContent
	}
	return nil
}

// Update replaces the editable fields. System templates are immutable.
// Empty arguments leave the field unchanged.
func (t *Template) Update(category, name, content string) error {
	if t.IsSystem {
		return ErrSystemTemplate
	}
	if c := strings.TrimSpace(category); c != "" {
		t.Category = c
	}
	if n := strings.TrimSpace(name); n != "" {
		t.Name = n
	}
	if c := strings.TrimSpace(content); c != "" {
		t.Content = c
	}
	t.UpdatedAt = time.Now().UTC()
	return t.Validate()
}

// CanDelete reports an error when the template may not be deleted.
func (t *Template) CanDelete() error {
	if t.IsSystem {
		return ErrSystemTemplate
	}
	return nil
}

// TemplateNameFromContent keeps the first TemplateNameRunes runes of content,
// marking a cut with "...".
func TemplateNameFromContent(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= TemplateNameRunes {
		return string(runes)
	}
	return string(runes[:TemplateNameRunes]) + "..."
}
