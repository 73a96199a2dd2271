package domain

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
)

// Reminder types created outside the scheduler.
const (
	ReminderTypeReview       = "复查"
	ReminderTypeAssessment   = "评估"
	ReminderTypeProgressNote = "病程记录"
)

// Common validation errors for Reminder
var (
	ErrEmptyReminderPatientID   = errors.New("reminder patient ID cannot be empty")
	ErrEmptyReminderType        = errors.New("reminder type cannot be empty")
	ErrEmptyReminderDescription = errors.New("reminder description cannot be empty")
	ErrInvalidReminderPriority  = errors.New("invalid reminder priority")
	ErrReminderAlreadyCompleted = errors.New("reminder already completed")
)

// Reminder is a materialized documentation obligation for one patient.
type Reminder struct {
	ID             uuid.UUID          `json:"id"`
	PatientID      uuid.UUID          `json:"patient_id"`
	HospitalNumber string             `json:"hospital_number"`
	Type           string             `json:"reminder_type"`
	EventType      schedule.EventType `json:"event_type,omitempty"`
	Date           time.Time          `json:"reminder_date"`
	DayNumber      int                `json:"day_number"`
	Description    string             `json:"description"`
	Priority       schedule.Priority  `json:"priority"`
	IsCompleted    bool               `json:"is_completed"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// NewReminder creates a pending reminder for patient.
func NewReminder(
	patient *Patient,
	reminderType string,
	date time.Time,
	description string,
	priority schedule.Priority,
) (*Reminder, error) {
	r := &Reminder{
		ID:             uuid.New(),
		PatientID:      patient.ID,
		HospitalNumber: patient.HospitalNumber,
		Type:           reminderType,
		Date:           schedule.CalendarDay(date),
		DayNumber:      patient.DayNumberOn(date),
		Description:    description,
		Priority:       priority,
		CreatedAt:      time.Now().UTC(),
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// NewReminderFromEvent materializes a scheduled event for patient.
func NewReminderFromEvent(patient *Patient, e schedule.DocumentationEvent) (*Reminder, error) {
	r, err := NewReminder(patient, e.Type.Label(), e.Date, e.Description, e.Priority)
	if err != nil {
		return nil, err
	}
	r.EventType = e.Type
	r.DayNumber = e.DayNumber
	return r, nil
}

// Validate checks if the Reminder has valid data.
func (r *Reminder) Validate() error {
	if r.ID == uuid.Nil {
		return ErrInvalidID
	}
	if r.PatientID == uuid.Nil {
		return ErrEmptyReminderPatientID
	}
	if r.Type == "" {
		return ErrEmptyReminderType
	}
	if r.Description == "" {
		return ErrEmptyReminderDescription
	}
	if !r.Priority.IsValid() {
		return ErrInvalidReminderPriority
	}
	if r.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Complete marks the reminder done at now.
func (r *Reminder) Complete(now time.Time) error {
	if r.IsCompleted {
		return ErrReminderAlreadyCompleted
	}
	t := now.UTC()
	r.IsCompleted = true
	r.CompletedAt = &t
	return nil
}

// SortRemindersByPriority orders reminders from urgent to low. Reminders of
// equal priority are ordered by ID.
func SortRemindersByPriority(reminders []*Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		a, b := reminders[i], reminders[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.ID.String() < b.ID.String()
	})
}
