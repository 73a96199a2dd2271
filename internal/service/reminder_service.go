package service

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
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

// Stay lengths that trigger the initial reminders.
const (
	reviewAfterDays   = 85
	assessmentMaxDays  = 3
)

// InitializeResult reports what InitializeReminders did.
type InitializeResult struct {
	// Existing is the number of reminders the patient already had. When it is
	// positive nothing was created.
	Existing int
	Created  []*domain.Reminder
}

// ReminderService lists and completes reminders.
type ReminderService interface {
	// TodayReminders returns uncompleted reminders dated today, most urgent
	// first. An empty priority returns every priority.
	TodayReminders(ctx context.Context, priority string) ([]*domain.Reminder, error)

	// CompleteReminder marks a reminder done. Completing it twice is not an error.
	CompleteReminder(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)

	// PatientReminders returns the patient's reminders by date; upcoming
	// restricts them to uncompleted ones dated today or later.
	PatientReminders(ctx context.Context, hospitalNumber string, upcoming bool) ([]*domain.Reminder, error)

	// InitializeReminders creates the starter reminders for a patient that
	// has none.
	InitializeReminders(ctx context.Context, hospitalNumber string) (*InitializeResult, error)
}

type reminderServiceImpl struct {
	db        *sql.DB
	patients  store.PatientStore
	reminders store.ReminderStore
	observer  ReminderObserver
	now       func() time.Time
	logger    *slog.Logger
}

// NewReminderService creates a ReminderService. observer may be nil.
func NewReminderService(
	db *sql.DB,
	patients store.PatientStore,
	reminders store.ReminderStore,
	observer ReminderObserver,
	logger *slog.Logger,
) (ReminderService, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if patients == nil {
		return nil, errors.New("patients cannot be nil")
	}
	if reminders == nil {
		return nil, errors.New("reminders cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &reminderServiceImpl{
		db:        db,
		patients:  patients,
		reminders: reminders,
		observer:  observer,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "reminder_service")),
	}, nil
}

func (s *reminderServiceImpl) today() time.Time {
	return schedule.CalendarDay(s.now())
}

func (s *reminderServiceImpl) TodayReminders(ctx context.Context, priority string) ([]*domain.Reminder, error) {
	var p schedule.Priority
	if priority = strings.TrimSpace(priority); priority != "" {
		var err error
		if p, err = schedule.ParsePriority(priority); err != nil {
			return nil, invalidInput("today_reminders", "priority", err.Error())
		}
	}

	reminders, err := s.reminders.ListDue(ctx, s.today(), p)
	if err != nil {
		return nil, NewServiceError("today_reminders", "failed to list reminders", err)
	}
	domain.SortRemindersByPriority(reminders)
	return reminders, nil
}

func (s *reminderServiceImpl) CompleteReminder(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	reminder, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("complete_reminder", "failed to load reminder", err)
	}

	if err := reminder.Complete(s.now()); err != nil {
		if errors.Is(err, domain.ErrReminderAlreadyCompleted) {
			return reminder, nil
		}
		return nil, NewServiceError("complete_reminder", "failed to complete reminder", err)
	}
	if err := s.reminders.Update(ctx, reminder); err != nil {
		return nil, NewServiceError("complete_reminder", "failed to save reminder", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "reminder completed",
		slog.String("reminder_id", id.String()))
	return reminder, nil
}

func (s *reminderServiceImpl) PatientReminders(
	ctx context.Context,
	hospitalNumber string,
	upcoming bool,
) ([]*domain.Reminder, error) {
	patient, err := s.patients.GetByHospitalNumber(ctx, hospitalNumber)
	if err != nil {
		return nil, NewServiceError("patient_reminders", "failed to load patient", err)
	}

	var from *time.Time
	if upcoming {
		today := s.today()
		from = &today
	}
	reminders, err := s.reminders.ListByPatient(ctx, patient.ID, from)
	if err != nil {
		return nil, NewServiceError("patient_reminders", "failed to list reminders", err)
	}
	return reminders, nil
}

func (s *reminderServiceImpl) InitializeReminders(ctx context.Context, hospitalNumber string) (*InitializeResult, error) {
	patient, err := s.patients.GetByHospitalNumber(ctx, hospitalNumber)
	if err != nil {
		return nil, NewServiceError("initialize_reminders", "failed to load patient", err)
	}

	existing, err := s.reminders.CountByPatient(ctx, patient.ID)
	if err != nil {
		return nil, NewServiceError("initialize_reminders", "failed to count reminders", err)
	}
	if existing > 0 {
		return &InitializeResult{Existing: existing, Created: []*domain.Reminder{}}, nil
	}

	reminders, err := starterReminders(patient, s.today())
	if err != nil {
		return nil, NewServiceError("initialize_reminders", "failed to build reminders", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.reminders.WithTx(tx).CreateMultiple(ctx, reminders)
	})
	if err != nil {
		return nil, NewServiceError("initialize_reminders", "failed to save reminders", err)
	}

	observeReminders(s.observer, reminders)
	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "reminders initialized",
		slog.String("patient_id", patient.ID.String()),
		slog.Int("created", len(reminders)))
	return &InitializeResult{Created: reminders}, nil
}

// starterReminders builds the reminders for a patient that has none: a
// review for long stays, an assessment for new admissions and always a
// progress note, all dated today.
func starterReminders(patient *domain.Patient, today time.Time) ([]*domain.Reminder, error) {
	day := patient.DayNumberOn(today)
	days := day - 1
	name := patient.DisplayName()

	type starter struct {
		kind        string
		description string
		priority    schedule.Priority
	}
	var starters []starter
	if days >= reviewAfterDays {
		starters = append(starters, starter{domain.ReminderTypeReview,
			fmt.Sprintf("%s 住院已超过%d天，建议安排复查评估", name, reviewAfterDays), schedule.PriorityUrgent})
	}
	if days <= assessmentMaxDays {
		starters = append(starters, starter{domain.ReminderTypeAssessment,
			fmt.Sprintf("%s 入院第%d天，完成初次康复评估", name, day), schedule.PriorityHigh})
	}
	starters = append(starters, starter{domain.ReminderTypeProgressNote,
		fmt.Sprintf("完成%s的病程记录", name), schedule.PriorityMedium})

	reminders := make([]*domain.Reminder, 0, len(starters))
	for _, st := range starters {
		r, err := domain.NewReminder(patient, st.kind, today, st.description, st.priority)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, nil
}
