package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/rehabdesk/rehabdesk-api/internal/knowledge"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

// Knowledge retrieval defaults.
const (
	DefaultNoteTopK = 3
	planTopK        = 5
	recentNoteCount = 2
)

// Generator drafts clinical text with a language model.
type Generator interface {
	ExtractPatientInfo(ctx context.Context, initialNote string) (*generation.PatientInfo, error)
	GenerateProgressNote(ctx context.Context, in generation.NoteInput) (string, error)
	GenerateRehabPlan(ctx context.Context, patient *domain.Patient, knowledge []string) (*generation.RehabPlanDraft, error)
	ClassifyPhrases(ctx context.Context, block string) ([]generation.ClassifiedPhrase, error)
}

// KnowledgeSearcher retrieves reference passages.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]knowledge.Hit, error)
}

// GenerateNoteInput describes the note to draft. A zero RecordDate means
// today; a nil Roster uses the configured one.
type GenerateNoteInput struct {
	HospitalNumber   string
	RecordDate       time.Time
	RecordType       string
	DailyCondition   string
	UseKnowledgeBase bool
	Roster           *schedule.Roster
}

// GeneratedNote is a drafted, unsaved progress note.
type GeneratedNote struct {
	Content       string `json:"content"`
	RecordType    string `json:"record_type"`
	DayNumber     int    `json:"day_number"`
	KnowledgeUsed int    `json:"knowledge_used"`
}

// GeneratedPlan is a saved rehab plan with how it was produced.
type GeneratedPlan struct {
	Plan *domain.RehabPlan `json:"plan"`
	// Fallback is set when the default plan replaced unusable model output.
	Fallback bool `json:"fallback"`
}

// AIService runs the model-backed operations.
type AIService interface {
	ExtractPatientInfo(ctx context.Context, initialNote string) (*generation.PatientInfo, error)
	// GenerateNote drafts a progress note; the note is not saved.
	GenerateNote(ctx context.Context, in GenerateNoteInput) (*GeneratedNote, error)
	// GenerateRehabPlan drafts a plan and saves it as the patient's plan.
	GenerateRehabPlan(ctx context.Context, hospitalNumber string) (*GeneratedPlan, error)
}

// AIServiceConfig holds the ward settings used in prompts.
type AIServiceConfig struct {
	Roster schedule.Roster
	TopK   int
}

type aiServiceImpl struct {
	patients  store.PatientStore
	notes     store.NoteStore
	plans     store.RehabPlanStore
	generator Generator
	searcher  KnowledgeSearcher
	roster    schedule.Roster
	topK      int
	now       func() time.Time
	logger    *slog.Logger
}

// NewAIService creates an AIService. searcher may be nil when no knowledge
// base is configured.
func NewAIService(
	patients store.PatientStore,
	notes store.NoteStore,
	plans store.RehabPlanStore,
	generator Generator,
	searcher KnowledgeSearcher,
	cfg AIServiceConfig,
	logger *slog.Logger,
) (AIService, error) {
	if patients == nil || notes == nil || plans == nil {
		return nil, errors.New("stores cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultNoteTopK
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &aiServiceImpl{
		patients:  patients,
		notes:     notes,
		plans:     plans,
		generator: generator,
		searcher:  searcher,
		roster:    cfg.Roster,
		topK:      cfg.TopK,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "ai_service")),
	}, nil
}

func (s *aiServiceImpl) ExtractPatientInfo(ctx context.Context, initialNote string) (*generation.PatientInfo, error) {
	info, err := s.generator.ExtractPatientInfo(ctx, initialNote)
	if err != nil {
		return nil, NewServiceError("extract_patient_info", "failed to extract patient info", err)
	}
	return info, nil
}

func (s *aiServiceImpl) GenerateNote(ctx context.Context, in GenerateNoteInput) (*GeneratedNote, error) {
	patient, err := s.patients.GetByHospitalNumber(ctx, strings.TrimSpace(in.HospitalNumber))
	if err != nil {
		return nil, NewServiceError("generate_note", "failed to load patient", err)
	}

	recordDate := in.RecordDate
	if recordDate.IsZero() {
		recordDate = s.now()
	}
	recordDate = schedule.CalendarDay(recordDate)
	if recordDate.Before(patient.AdmissionDate) {
		return nil, NewServiceError("generate_note", "record date precedes admission", domain.ErrNoteBeforeAdmission)
	}
	recordType := strings.TrimSpace(in.RecordType)
	if recordType == "" {
		recordType = generation.DefaultRecordType
	}

	recent, err := s.notes.ListByPatient(ctx, patient.ID, recentNoteCount)
	if err != nil {
		return nil, NewServiceError("generate_note", "failed to load recent notes", err)
	}

	var passages []string
	if in.UseKnowledgeBase {
		passages = s.retrieve(ctx, strings.TrimSpace(patient.Diagnosis+" "+in.DailyCondition), s.topK)
	}

	roster := s.roster
	if in.Roster != nil {
		roster = *in.Roster
	}

	content, err := s.generator.GenerateProgressNote(ctx, generation.NoteInput{
		Patient:        patient,
		RecordDate:     recordDate,
		RecordType:     recordType,
		DailyCondition: in.DailyCondition,
		RecentNotes:    recent,
		Roster:         roster,
		Knowledge:      passages,
	})
	if err != nil {
		return nil, NewServiceError("generate_note", "failed to generate note", err)
	}

	return &GeneratedNote{
		Content:       content,
		RecordType:    recordType,
		DayNumber:     patient.DayNumberOn(recordDate),
		KnowledgeUsed: len(passages),
	}, nil
}

func (s *aiServiceImpl) GenerateRehabPlan(ctx context.Context, hospitalNumber string) (*GeneratedPlan, error) {
	patient, err := s.patients.GetByHospitalNumber(ctx, strings.TrimSpace(hospitalNumber))
	if err != nil {
		return nil, NewServiceError("generate_rehab_plan", "failed to load patient", err)
	}

	passages := s.retrieve(ctx, strings.TrimSpace(patient.Diagnosis+" 康复训练 方案"), planTopK)

	draft, err := s.generator.GenerateRehabPlan(ctx, patient, passages)
	if err != nil {
		return nil, NewServiceError("generate_rehab_plan", "failed to generate plan", err)
	}

	plan, err := upsertPlan(ctx, s.plans, patient, PlanInput{
		ShortTermGoals: draft.ShortTermGoals,
		LongTermGoals:  draft.LongTermGoals,
		TrainingPlan:   draft.TrainingPlan,
	})
	if err != nil {
		return nil, err
	}
	return &GeneratedPlan{Plan: plan, Fallback: draft.Fallback}, nil
}

// retrieve searches the knowledge base. Failures are logged and yield no
// passages so that generation can proceed without references.
func (s *aiServiceImpl) retrieve(ctx context.Context, query string, topK int) []string {
	if s.searcher == nil || query == "" {
		return nil
	}
	hits, err := s.searcher.Search(ctx, query, topK)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).WarnContext(ctx, "knowledge search failed",
			slog.String("error", err.Error()))
		return nil
	}
	passages := make([]string, 0, len(hits))
	for _, h := range hits {
		passages = append(passages, h.Text)
	}
	return passages
}
