package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

// DefaultNoteListLimit is the number of notes listed when no limit is given.
const DefaultNoteListLimit = 10

// NoteInput holds the fields of a new progress note. A zero RecordDate means today.
type NoteInput struct {
	HospitalNumber   string
	RecordDate       time.Time
	RecordType       string
	DailyCondition   string
	GeneratedContent string
}

// NoteUpdate holds the fields to change; nil leaves a field as it is.
type NoteUpdate struct {
	DailyCondition   *string
	GeneratedContent *string
}

// NoteService stores progress notes.
type NoteService interface {
	CreateNote(ctx context.Context, in NoteInput) (*domain.ProgressNote, error)
	GetNote(ctx context.Context, id uuid.UUID) (*domain.ProgressNote, error)
	// UpdateNote marks the note edited when its content changes.
	UpdateNote(ctx context.Context, id uuid.UUID, upd NoteUpdate) (*domain.ProgressNote, error)
	// ListNotes returns the newest notes first; limit <= 0 takes DefaultNoteListLimit.
	ListNotes(ctx context.Context, hospitalNumber string, limit int) ([]*domain.ProgressNote, error)
}

type noteServiceImpl struct {
	patients store.PatientStore
	notes    store.NoteStore
	now      func() time.Time
	logger   *slog.Logger
}

// NewNoteService creates a NoteService.
func NewNoteService(patients store.PatientStore, notes store.NoteStore, logger *slog.Logger) (NoteService, error) {
	if patients == nil {
		return nil, errors.New("patients cannot be nil")
	}
	if notes == nil {
		return nil, errors.New("notes cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &noteServiceImpl{
		patients: patients,
		notes:    notes,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "note_service")),
	}, nil
}

func (s *noteServiceImpl) CreateNote(ctx context.Context, in NoteInput) (*domain.ProgressNote, error) {
	patient, err := s.patients.GetByHospitalNumber(ctx, strings.TrimSpace(in.HospitalNumber))
	if err != nil {
		return nil, NewServiceError("create_note", "failed to load patient", err)
	}

	recordDate := in.RecordDate
	if recordDate.IsZero() {
		recordDate = s.now()
	}
	recordType := strings.TrimSpace(in.RecordType)
	if recordType == "" {
		recordType = generation.DefaultRecordType
	}

	note, err := domain.NewProgressNote(patient, recordDate, recordType)
	if err != nil {
		return nil, NewServiceError("create_note", "invalid note", err)
	}
	note.DailyCondition = in.DailyCondition
	note.GeneratedContent = in.GeneratedContent

	if err := s.notes.Create(ctx, note); err != nil {
		return nil, NewServiceError("create_note", "failed to save note", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "progress note created",
		slog.String("note_id", note.ID.String()),
		slog.String("patient_id", patient.ID.String()),
		slog.Int("day_number", note.DayNumber),
		slog.Int("content_runes", len([]rune(note.GeneratedContent))))
	return note, nil
}

func (s *noteServiceImpl) GetNote(ctx context.Context, id uuid.UUID) (*domain.ProgressNote, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("get_note", "failed to load note", err)
	}
	return note, nil
}

func (s *noteServiceImpl) UpdateNote(ctx context.Context, id uuid.UUID, upd NoteUpdate) (*domain.ProgressNote, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("update_note", "failed to load note", err)
	}

	if upd.DailyCondition != nil {
		note.DailyCondition = *upd.DailyCondition
		note.UpdatedAt = time.Now().UTC()
	}
	if upd.GeneratedContent != nil {
		note.Edit(*upd.GeneratedContent)
	}

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, NewServiceError("update_note", "failed to save note", err)
	}
	return note, nil
}

func (s *noteServiceImpl) ListNotes(ctx context.Context, hospitalNumber string, limit int) ([]*domain.ProgressNote, error) {
	patient, err := s.patients.GetByHospitalNumber(ctx, strings.TrimSpace(hospitalNumber))
	if err != nil {
		return nil, NewServiceError("list_notes", "failed to load patient", err)
	}
	if limit <= 0 {
		limit = DefaultNoteListLimit
	}
	notes, err := s.notes.ListByPatient(ctx, patient.ID, limit)
	if err != nil {
		return nil, NewServiceError("list_notes", "failed to list notes", err)
	}
	return notes, nil
}
