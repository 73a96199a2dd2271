package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

// PatientInput holds the fields of a new patient.
type PatientInput struct {
	HospitalNumber string
	Name           string
	Gender         string
	Age            *int
	AdmissionDate  time.Time
	DischargeDate  *time.Time
	ChiefComplaint string
	Diagnosis      string
	PastHistory    string
	AllergyHistory string
	SpecialistExam string
	InitialNote    string
}

// PatientUpdate holds the fields to change; nil leaves a field as it is.
type PatientUpdate struct {
	Name           *string
	Gender         *string
	Age            *int
	AdmissionDate  *time.Time
	DischargeDate  *time.Time
	ChiefComplaint *string
	Diagnosis      *string
	PastHistory    *string
	AllergyHistory *string
	SpecialistExam *string
	InitialNote    *string
}

// PatientService manages patients and the reminders their stay implies.
type PatientService interface {
	// CreatePatient saves the patient and materializes its schedule as
	// reminders in the same transaction.
	CreatePatient(ctx context.Context, in PatientInput) (*domain.Patient, error)

	// GetPatient returns store.ErrPatientNotFound for an unknown hospital number.
	GetPatient(ctx context.Context, hospitalNumber string) (*domain.Patient, error)

	ListPatients(ctx context.Context, filter store.PatientFilter) ([]*domain.Patient, error)

	// UpdatePatient applies the update. Setting or moving the discharge date
	// replaces the pending scheduled reminders with the closed-stay schedule.
	UpdatePatient(ctx context.Context, hospitalNumber string, upd PatientUpdate) (*domain.Patient, error)

	// DeletePatient removes the patient with its notes, reminders and plan.
	DeletePatient(ctx context.Context, hospitalNumber string) error
}

type patientServiceImpl struct {
	db        *sql.DB
	patients  store.PatientStore
	reminders store.ReminderStore
	scheduler schedule.Service
	observer  ReminderObserver
	logger    *slog.Logger
}

// NewPatientService creates a PatientService. observer may be nil.
func NewPatientService(
	db *sql.DB,
	patients store.PatientStore,
	reminders store.ReminderStore,
	scheduler schedule.Service,
	observer ReminderObserver,
	logger *slog.Logger,
) (PatientService, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if patients == nil {
		return nil, errors.New("patients cannot be nil")
	}
	if reminders == nil {
		return nil, errors.New("reminders cannot be nil")
	}
	if scheduler == nil {
		scheduler = schedule.NewDefaultService()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &patientServiceImpl{
		db:        db,
		patients:  patients,
		reminders: reminders,
		scheduler: scheduler,
		observer:  observer,
		logger:    logger.With(slog.String("component", "patient_service")),
	}, nil
}

func (s *patientServiceImpl) CreatePatient(ctx context.Context, in PatientInput) (*domain.Patient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	patient, err := domain.NewPatient(in.HospitalNumber, in.AdmissionDate)
	if err != nil {
		return nil, NewServiceError("create_patient", "invalid patient", err)
	}
	patient.Name = strings.TrimSpace(in.Name)
	patient.Gender = strings.TrimSpace(in.Gender)
	patient.Age = in.Age
	patient.ChiefComplaint = in.ChiefComplaint
	patient.Diagnosis = in.Diagnosis
	patient.PastHistory = in.PastHistory
	patient.AllergyHistory = in.AllergyHistory
	patient.SpecialistExam = in.SpecialistExam
	patient.InitialNote = in.InitialNote
	if in.DischargeDate != nil {
		if err := patient.Discharge(*in.DischargeDate); err != nil {
			return nil, NewServiceError("create_patient", "invalid discharge date", err)
		}
	}
	if err := patient.Validate(); err != nil {
		return nil, NewServiceError("create_patient", "invalid patient", err)
	}

	events, err := stayEvents(s.scheduler, patient)
	if err != nil {
		return nil, NewServiceError("create_patient", "failed to schedule stay", err)
	}
	reminders, err := materialize(patient, events, nil)
	if err != nil {
		return nil, NewServiceError("create_patient", "failed to build reminders", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.patients.WithTx(tx).Create(ctx, patient); err != nil {
			return NewServiceError("create_patient", "failed to save patient", err)
		}
		if len(reminders) == 0 {
			return nil
		}
		if err := s.reminders.WithTx(tx).CreateMultiple(ctx, reminders); err != nil {
			return NewServiceError("create_patient", "failed to save reminders", err)
		}
		return nil
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to create patient",
			slog.String("error", err.Error()),
			slog.String("hospital_number", patient.HospitalNumber))
		return nil, err
	}

	observeReminders(s.observer, reminders)
	log.InfoContext(ctx, "patient created",
		slog.String("patient_id", patient.ID.String()),
		slog.Int("reminders", len(reminders)))
	return patient, nil
}

func (s *patientServiceImpl) GetPatient(ctx context.Context, hospitalNumber string) (*domain.Patient, error) {
	patient, err := s.patients.GetByHospitalNumber(ctx, strings.TrimSpace(hospitalNumber))
	if err != nil {
		return nil, NewServiceError("get_patient", "failed to load patient", err)
	}
	return patient, nil
}

func (s *patientServiceImpl) ListPatients(ctx context.Context, filter store.PatientFilter) ([]*domain.Patient, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	patients, err := s.patients.List(ctx, filter)
	if err != nil {
		return nil, NewServiceError("list_patients", "failed to list patients", err)
	}
	return patients, nil
}

func (s *patientServiceImpl) UpdatePatient(
	ctx context.Context,
	hospitalNumber string,
	upd PatientUpdate,
) (*domain.Patient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	patient, err := s.GetPatient(ctx, hospitalNumber)
	if err != nil {
		return nil, err
	}

	previousDischarge := patient.DischargeDate
	applyPatientUpdate(patient, upd)
	if upd.DischargeDate != nil {
		if err := patient.Discharge(*upd.DischargeDate); err != nil {
			return nil, NewServiceError("update_patient", "invalid discharge date", err)
		}
	}
	patient.UpdatedAt = time.Now().UTC()
	if err := patient.Validate(); err != nil {
		return nil, NewServiceError("update_patient", "invalid patient", err)
	}

	reschedule := upd.AdmissionDate != nil ||
		(patient.DischargeDate != nil && (previousDischarge == nil || !previousDischarge.Equal(*patient.DischargeDate)))

	var created []*domain.Reminder
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.patients.WithTx(tx).Update(ctx, patient); err != nil {
			return NewServiceError("update_patient", "failed to save patient", err)
		}
		if !reschedule {
			return nil
		}

		txReminders := s.reminders.WithTx(tx)
		removed, err := txReminders.DeletePendingScheduled(ctx, patient.ID)
		if err != nil {
			return NewServiceError("update_patient", "failed to remove pending reminders", err)
		}
		kept, err := txReminders.ListByPatient(ctx, patient.ID, nil)
		if err != nil {
			return NewServiceError("update_patient", "failed to load reminders", err)
		}
		events, err := stayEvents(s.scheduler, patient)
		if err != nil {
			return NewServiceError("update_patient", "failed to schedule stay", err)
		}
		created, err = materialize(patient, events, kept)
		if err != nil {
			return NewServiceError("update_patient", "failed to build reminders", err)
		}
		if len(created) > 0 {
			if err := txReminders.CreateMultiple(ctx, created); err != nil {
				return NewServiceError("update_patient", "failed to save reminders", err)
			}
		}

		log.InfoContext(ctx, "stay rescheduled",
			slog.String("patient_id", patient.ID.String()),
			slog.Int64("removed", removed),
			slog.Int("created", len(created)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	observeReminders(s.observer, created)
	return patient, nil
}

func applyPatientUpdate(p *domain.Patient, upd PatientUpdate) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.Name, upd.Name)
	set(&p.Gender, upd.Gender)
	set(&p.ChiefComplaint, upd.ChiefComplaint)
	set(&p.Diagnosis, upd.Diagnosis)
	set(&p.PastHistory, upd.PastHistory)
	set(&p.AllergyHistory, upd.AllergyHistory)
	set(&p.SpecialistExam, upd.SpecialistExam)
	set(&p.InitialNote, upd.InitialNote)
	if upd.Age != nil {
		age := *upd.Age
		p.Age = &age
	}
	if upd.AdmissionDate != nil {
		p.AdmissionDate = schedule.CalendarDay(*upd.AdmissionDate)
	}
}

func (s *patientServiceImpl) DeletePatient(ctx context.Context, hospitalNumber string) error {
	patient, err := s.GetPatient(ctx, hospitalNumber)
	if err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, patient.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewServiceError("delete_patient", "patient vanished", store.ErrPatientNotFound)
		}
		return NewServiceError("delete_patient", "failed to delete patient", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "patient deleted",
		slog.String("patient_id", patient.ID.String()))
	return nil
}
