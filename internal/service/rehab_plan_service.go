package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

// PlanInput holds the goals and training plan of a rehab plan.
type PlanInput struct {
	ShortTermGoals string
	LongTermGoals  string
	TrainingPlan   []domain.TrainingItem
}

// ProgressInput holds a progress entry. A zero RecordDate means today and a
// zero Score takes the default.
type ProgressInput struct {
	RecordDate time.Time
	Content    string
	Score      int
}

// RehabPlanService manages rehab plans and progress entries.
type RehabPlanService interface {
	// GetPlan returns store.ErrRehabPlanNotFound when the patient has no plan.
	GetPlan(ctx context.Context, hospitalNumber string) (*domain.RehabPlan, error)
	// SavePlan creates the patient's plan or replaces the existing one.
	SavePlan(ctx context.Context, hospitalNumber string, in PlanInput) (*domain.RehabPlan, error)
	ListProgress(ctx context.Context, hospitalNumber string) ([]*domain.RehabProgress, error)
	AddProgress(ctx context.Context, hospitalNumber string, in ProgressInput) (*domain.RehabProgress, error)
}

type rehabPlanServiceImpl struct {
	patients store.PatientStore
	plans    store.RehabPlanStore
	now      func() time.Time
	logger   *slog.Logger
}

// NewRehabPlanService creates a RehabPlanService.
func NewRehabPlanService(
	patients store.PatientStore,
	plans store.RehabPlanStore,
	logger *slog.Logger,
) (RehabPlanService, error) {
	if patients == nil {
		return nil, errors.New("patients cannot be nil")
	}
	if plans == nil {
		return nil, errors.New("plans cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &rehabPlanServiceImpl{
		patients: patients,
		plans:    plans,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "rehab_plan_service")),
	}, nil
}

func (s *rehabPlanServiceImpl) GetPlan(ctx context.Context, hospitalNumber string) (*domain.RehabPlan, error) {
	patient, err := s.patients.GetByHospitalNumber(ctx, strings.TrimSpace(hospitalNumber))
	if err != nil {
		return nil, NewServiceError("get_rehab_plan", "failed to load patient", err)
	}
	plan, err := s.plans.GetByPatient(ctx, patient.ID)
	if err != nil {
		return nil, NewServiceError("get_rehab_plan", "failed to load plan", err)
	}
	return plan, nil
}

func (s *rehabPlanServiceImpl) SavePlan(ctx context.Context, hospitalNumber string, in PlanInput) (*domain.RehabPlan, error) {
	patient, err := s.patients.GetByHospitalNumber(ctx, strings.TrimSpace(hospitalNumber))
	if err != nil {
		return nil, NewServiceError("save_rehab_plan", "failed to load patient", err)
	}
	return upsertPlan(ctx, s.plans, patient, in)
}

// upsertPlan replaces the patient's plan, keeping its identity, or creates one.
func upsertPlan(
	ctx context.Context,
	plans store.RehabPlanStore,
	patient *domain.Patient,
	in PlanInput,
) (*domain.RehabPlan, error) {
	plan, err := plans.GetByPatient(ctx, patient.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		plan, err = domain.NewRehabPlan(patient, in.ShortTermGoals, in.LongTermGoals, in.TrainingPlan)
		if err != nil {
			return nil, NewServiceError("save_rehab_plan", "invalid plan", err)
		}
	case err != nil:
		return nil, NewServiceError("save_rehab_plan", "failed to load plan", err)
	default:
		if err := plan.Replace(in.ShortTermGoals, in.LongTermGoals, in.TrainingPlan); err != nil {
			return nil, NewServiceError("save_rehab_plan", "invalid plan", err)
		}
	}

	if err := plans.Upsert(ctx, plan); err != nil {
		return nil, NewServiceError("save_rehab_plan", "failed to save plan", err)
	}
	return plan, nil
}

func (s *rehabPlanServiceImpl) ListProgress(ctx context.Context, hospitalNumber string) ([]*domain.RehabProgress, error) {
	patient, err := s.patients.GetByHospitalNumber(ctx, strings.TrimSpace(hospitalNumber))
	if err != nil {
		return nil, NewServiceError("list_rehab_progress", "failed to load patient", err)
	}
	progress, err := s.plans.ListProgress(ctx, patient.ID)
	if err != nil {
		return nil, NewServiceError("list_rehab_progress", "failed to list progress", err)
	}
	return progress, nil
}

func (s *rehabPlanServiceImpl) AddProgress(
	ctx context.Context,
	hospitalNumber string,
	in ProgressInput,
) (*domain.RehabProgress, error) {
	patient, err := s.patients.GetByHospitalNumber(ctx, strings.TrimSpace(hospitalNumber))
	if err != nil {
		return nil, NewServiceError("add_rehab_progress", "failed to load patient", err)
	}

	date := in.RecordDate
	if date.IsZero() {
		date = s.now()
	}
	progress, err := domain.NewRehabProgress(patient, date, strings.TrimSpace(in.Content), in.Score)
	if err != nil {
		return nil, NewServiceError("add_rehab_progress", "invalid progress entry", err)
	}
	if err := s.plans.AddProgress(ctx, progress); err != nil {
		return nil, NewServiceError("add_rehab_progress", "failed to save progress", err)
	}

	s.logger.DebugContext(ctx, "rehab progress added",
		slog.String("patient_id", patient.ID.String()),
		slog.Int("score", progress.Score))
	return progress, nil
}
