package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
)

// Common validation errors for ProgressNote
var (
	ErrEmptyNotePatientID  = errors.New("note patient ID cannot be empty")
	ErrEmptyNoteRecordType = errors.New("note record type cannot be empty")
	ErrNoteBeforeAdmission = errors.New("note record date precedes admission")
)

// ProgressNote is one dated entry of a patient's course of treatment.
type ProgressNote struct {
	ID               uuid.UUID `json:"id"`
	PatientID        uuid.UUID `json:"patient_id"`
	HospitalNumber   string    `json:"hospital_number"`
	RecordDate       time.Time `json:"record_date"`
	DayNumber        int       `json:"day_number"`
	RecordType       string    `json:"record_type"`
	DailyCondition   string    `json:"daily_condition,omitempty"`
	GeneratedContent string    `json:"generated_content,omitempty"`
	IsEdited         bool      `json:"is_edited"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewProgressNote creates a note for patient dated recordDate. The day number
// is derived from the patient's admission date.
func NewProgressNote(patient *Patient, recordDate time.Time, recordType string) (*ProgressNote, error) {
	now := time.Now().UTC()
	note := &ProgressNote{
		ID:             uuid.New(),
		PatientID:      patient.ID,
		HospitalNumber: patient.HospitalNumber,
		RecordDate:     schedule.CalendarDay(recordDate),
		DayNumber:      patient.DayNumberOn(recordDate),
		RecordType:     recordType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the ProgressNote has valid data.
func (n *ProgressNote) Validate() error {
	if n.ID == uuid.Nil {
		return ErrInvalidID
	}
	if n.PatientID == uuid.Nil {
		return ErrEmptyNotePatientID
	}
	if n.RecordType == "" {
		return ErrEmptyNoteRecordType
	}
	if n.DayNumber < 1 {
		return ErrNoteBeforeAdmission
	}
	return nil
}

// Edit replaces the note content and marks it as edited by a clinician.
func (n *ProgressNote) Edit(content string) {
	n.GeneratedContent = content
	n.IsEdited = true
	n.UpdatedAt = time.Now().UTC()
}

// Excerpt returns the record type followed by the first limit runes of the
// content, as used when a note is quoted in a later prompt.
func (n *ProgressNote) Excerpt(limit int) string {
	runes := []rune(n.GeneratedContent)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return n.RecordType + " " + string(runes)
}
