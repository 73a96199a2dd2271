package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/rehabdesk/rehabdesk-api/internal/knowledge"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

// The mocks return zero values for any method whose function field is nil.

type mockPatientService struct {
	CreateFn func(ctx context.Context, in service.PatientInput) (*domain.Patient, error)
	GetFn    func(ctx context.Context, hn string) (*domain.Patient, error)
	ListFn   func(ctx context.Context, filter store.PatientFilter) ([]*domain.Patient, error)
	UpdateFn func(ctx context.Context, hn string, upd service.PatientUpdate) (*domain.Patient, error)
	DeleteFn func(ctx context.Context, hn string) error
}

func (m *mockPatientService) CreatePatient(ctx context.Context, in service.PatientInput) (*domain.Patient, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, in)
	}
	return nil, nil
}

func (m *mockPatientService) GetPatient(ctx context.Context, hn string) (*domain.Patient, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, hn)
	}
	return nil, nil
}

func (m *mockPatientService) ListPatients(ctx context.Context, filter store.PatientFilter) ([]*domain.Patient, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockPatientService) UpdatePatient(
	ctx context.Context,
	hn string,
	upd service.PatientUpdate,
) (*domain.Patient, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, hn, upd)
	}
	return nil, nil
}

func (m *mockPatientService) DeletePatient(ctx context.Context, hn string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, hn)
	}
	return nil
}

type mockReminderService struct {
	TodayFn      func(ctx context.Context, priority string) ([]*domain.Reminder, error)
	CompleteFn   func(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)
	PatientFn    func(ctx context.Context, hn string, upcoming bool) ([]*domain.Reminder, error)
	InitializeFn func(ctx context.Context, hn string) (*service.InitializeResult, error)
}

func (m *mockReminderService) TodayReminders(ctx context.Context, priority string) ([]*domain.Reminder, error) {
	if m.TodayFn != nil {
		return m.TodayFn(ctx, priority)
	}
	return nil, nil
}

func (m *mockReminderService) CompleteReminder(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, id)
	}
	return nil, nil
}

func (m *mockReminderService) PatientReminders(
	ctx context.Context,
	hn string,
	upcoming bool,
) ([]*domain.Reminder, error) {
	if m.PatientFn != nil {
		return m.PatientFn(ctx, hn, upcoming)
	}
	return nil, nil
}

func (m *mockReminderService) InitializeReminders(ctx context.Context, hn string) (*service.InitializeResult, error) {
	if m.InitializeFn != nil {
		return m.InitializeFn(ctx, hn)
	}
	return &service.InitializeResult{}, nil
}

type mockNoteService struct {
	CreateFn func(ctx context.Context, in service.NoteInput) (*domain.ProgressNote, error)
	GetFn    func(ctx context.Context, id uuid.UUID) (*domain.ProgressNote, error)
	UpdateFn func(ctx context.Context, id uuid.UUID, upd service.NoteUpdate) (*domain.ProgressNote, error)
	ListFn   func(ctx context.Context, hn string, limit int) ([]*domain.ProgressNote, error)
}

func (m *mockNoteService) CreateNote(ctx context.Context, in service.NoteInput) (*domain.ProgressNote, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, in)
	}
	return nil, nil
}

func (m *mockNoteService) GetNote(ctx context.Context, id uuid.UUID) (*domain.ProgressNote, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, nil
}

func (m *mockNoteService) UpdateNote(
	ctx context.Context,
	id uuid.UUID,
	upd service.NoteUpdate,
) (*domain.ProgressNote, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, upd)
	}
	return nil, nil
}

func (m *mockNoteService) ListNotes(ctx context.Context, hn string, limit int) ([]*domain.ProgressNote, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, hn, limit)
	}
	return nil, nil
}

type mockTemplateService struct {
	ListFn    func(ctx context.Context, category string) ([]*domain.Template, error)
	CreateFn  func(ctx context.Context, in service.TemplateInput) (*domain.Template, error)
	UpdateFn  func(ctx context.Context, id uuid.UUID, in service.TemplateInput) (*domain.Template, error)
	DeleteFn  func(ctx context.Context, id uuid.UUID) error
	UseFn     func(ctx context.Context, id uuid.UUID) (int, error)
	ExtractFn func(ctx context.Context, corpus string) (*service.PhraseExtraction, error)
	BatchFn   func(ctx context.Context, items []service.PhraseItem) (int, error)
}

func (m *mockTemplateService) ListTemplates(ctx context.Context, category string) ([]*domain.Template, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, category)
	}
	return nil, nil
}

func (m *mockTemplateService) CreateTemplate(ctx context.Context, in service.TemplateInput) (*domain.Template, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, in)
	}
	return nil, nil
}

func (m *mockTemplateService) UpdateTemplate(
	ctx context.Context,
	id uuid.UUID,
	in service.TemplateInput,
) (*domain.Template, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, in)
	}
	return nil, nil
}

func (m *mockTemplateService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockTemplateService) UseTemplate(ctx context.Context, id uuid.UUID) (int, error) {
	if m.UseFn != nil {
		return m.UseFn(ctx, id)
	}
	return 0, nil
}

func (m *mockTemplateService) ExtractPhrases(ctx context.Context, corpus string) (*service.PhraseExtraction, error) {
	if m.ExtractFn != nil {
		return m.ExtractFn(ctx, corpus)
	}
	return &service.PhraseExtraction{}, nil
}

func (m *mockTemplateService) BatchCreate(ctx context.Context, items []service.PhraseItem) (int, error) {
	if m.BatchFn != nil {
		return m.BatchFn(ctx, items)
	}
	return 0, nil
}

type mockRehabPlanService struct {
	GetFn          func(ctx context.Context, hn string) (*domain.RehabPlan, error)
	SaveFn         func(ctx context.Context, hn string, in service.PlanInput) (*domain.RehabPlan, error)
	ListProgressFn func(ctx context.Context, hn string) ([]*domain.RehabProgress, error)
	AddProgressFn  func(ctx context.Context, hn string, in service.ProgressInput) (*domain.RehabProgress, error)
}

func (m *mockRehabPlanService) GetPlan(ctx context.Context, hn string) (*domain.RehabPlan, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, hn)
	}
	return nil, nil
}

func (m *mockRehabPlanService) SavePlan(ctx context.Context, hn string, in service.PlanInput) (*domain.RehabPlan, error) {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, hn, in)
	}
	return nil, nil
}

func (m *mockRehabPlanService) ListProgress(ctx context.Context, hn string) ([]*domain.RehabProgress, error) {
	if m.ListProgressFn != nil {
		return m.ListProgressFn(ctx, hn)
	}
	return nil, nil
}

func (m *mockRehabPlanService) AddProgress(
	ctx context.Context,
	hn string,
	in service.ProgressInput,
) (*domain.RehabProgress, error) {
	if m.AddProgressFn != nil {
		return m.AddProgressFn(ctx, hn, in)
	}
	return nil, nil
}

type mockAIService struct {
	ExtractFn      func(ctx context.Context, initialNote string) (*generation.PatientInfo, error)
	GenerateNoteFn func(ctx context.Context, in service.GenerateNoteInput) (*service.GeneratedNote, error)
	GeneratePlanFn func(ctx context.Context, hn string) (*service.GeneratedPlan, error)
}

func (m *mockAIService) ExtractPatientInfo(ctx context.Context, initialNote string) (*generation.PatientInfo, error) {
	if m.ExtractFn != nil {
		return m.ExtractFn(ctx, initialNote)
	}
	return nil, nil
}

func (m *mockAIService) GenerateNote(ctx context.Context, in service.GenerateNoteInput) (*service.GeneratedNote, error) {
	if m.GenerateNoteFn != nil {
		return m.GenerateNoteFn(ctx, in)
	}
	return nil, nil
}

func (m *mockAIService) GenerateRehabPlan(ctx context.Context, hn string) (*service.GeneratedPlan, error) {
	if m.GeneratePlanFn != nil {
		return m.GeneratePlanFn(ctx, hn)
	}
	return nil, nil
}

type mockKnowledgeService struct {
	UploadFn func(ctx context.Context, filename string, data []byte) (*domain.KnowledgeDocument, error)
	ListFn   func(ctx context.Context) ([]*domain.KnowledgeDocument, error)
	DeleteFn func(ctx context.Context, id uuid.UUID) error
	SearchFn func(ctx context.Context, query string, topK int) ([]knowledge.Hit, error)
}

func (m *mockKnowledgeService) Upload(
	ctx context.Context,
	filename string,
	data []byte,
) (*domain.KnowledgeDocument, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, filename, data)
	}
	return nil, nil
}

func (m *mockKnowledgeService) ListFiles(ctx context.Context) ([]*domain.KnowledgeDocument, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *mockKnowledgeService) DeleteFile(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockKnowledgeService) Search(ctx context.Context, query string, topK int) ([]knowledge.Hit, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, topK)
	}
	return nil, nil
}

type mockScheduleService struct {
	PreviewFn func(ctx context.Context, req service.ScheduleRequest) ([]schedule.DocumentationEvent, error)
	RecordsFn func(ctx context.Context, req service.RecordsRequest) ([]schedule.Record, error)
}

func (m *mockScheduleService) Preview(
	ctx context.Context,
	req service.ScheduleRequest,
) ([]schedule.DocumentationEvent, error) {
	if m.PreviewFn != nil {
		return m.PreviewFn(ctx, req)
	}
	return nil, nil
}

func (m *mockScheduleService) Records(ctx context.Context, req service.RecordsRequest) ([]schedule.Record, error) {
	if m.RecordsFn != nil {
		return m.RecordsFn(ctx, req)
	}
	return nil, nil
}
