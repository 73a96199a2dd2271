package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
)

// Gender values accepted for a patient.
const (
	GenderMale   = "男"
	GenderFemale = "女"
)

// Common validation errors for Patient
var (
	ErrEmptyHospitalNumber      = errors.New("hospital number cannot be empty")
	ErrEmptyAdmissionDate       = errors.New("admission date cannot be empty")
	ErrDischargeBeforeAdmission = errors.New("discharge date precedes admission date")
	ErrInvalidAge               = errors.New("age must be between 0 and 150")
	ErrInvalidGender            = errors.New("gender must be 男 or 女")
)

// Patient is an inpatient of the rehabilitation ward, identified across the
// hospital by HospitalNumber.
type Patient struct {
	ID             uuid.UUID  `json:"id"`
	HospitalNumber string     `json:"hospital_number"`
	Name           string     `json:"name,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	Age            *int       `json:"age,omitempty"`
	AdmissionDate  time.Time  `json:"admission_date"`
	DischargeDate  *time.Time `json:"discharge_date,omitempty"`
	ChiefComplaint string     `json:"chief_complaint,omitempty"`
	Diagnosis      string     `json:"diagnosis,omitempty"`
	PastHistory    string     `json:"past_history,omitempty"`
	AllergyHistory string     `json:"allergy_history,omitempty"`
	SpecialistExam string     `json:"specialist_exam,omitempty"`
	InitialNote    string     `json:"initial_note,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewPatient creates a patient admitted on admissionDate.
func NewPatient(hospitalNumber string, admissionDate time.Time) (*Patient, error) {
	now := time.Now().UTC()
	p := &Patient{
		ID:             uuid.New(),
		HospitalNumber: strings.TrimSpace(hospitalNumber),
		AdmissionDate:  schedule.CalendarDay(admissionDate),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Patient has valid data.
func (p *Patient) Validate() error {
	if p.ID == uuid.Nil {
		return ErrInvalidID
	}
	if p.HospitalNumber == "" {
		return ErrEmptyHospitalNumber
	}
	if p.AdmissionDate.IsZero() {
		return ErrEmptyAdmissionDate
	}
	if p.DischargeDate != nil && schedule.CalendarDay(*p.DischargeDate).Before(schedule.CalendarDay(p.AdmissionDate)) {
		return ErrDischargeBeforeAdmission
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > 150) {
		return ErrInvalidAge
	}
	if p.Gender != "" && p.Gender != GenderMale && p.Gender != GenderFemale {
		return ErrInvalidGender
	}
	return nil
}

// IsDischarged reports whether the patient has a discharge date.
func (p *Patient) IsDischarged() bool {
	return p.DischargeDate != nil
}

// Discharge records the discharge date.
func (p *Patient) Discharge(date time.Time) error {
	d := schedule.CalendarDay(date)
	if d.Before(schedule.CalendarDay(p.AdmissionDate)) {
		return ErrDischargeBeforeAdmission
	}
	p.DischargeDate = &d
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Window returns the stay window used for scheduling.
func (p *Patient) Window() schedule.Window {
	w := schedule.Window{Admission: schedule.CalendarDay(p.AdmissionDate)}
	if p.DischargeDate != nil {
		d := schedule.CalendarDay(*p.DischargeDate)
		w.Discharge = &d
	}
	return w
}

// DaysInHospital counts whole days from admission to discharge, or to today
// for a patient still on the ward.
func (p *Patient) DaysInHospital(today time.Time) int {
	end := today
	if p.DischargeDate != nil {
		end = *p.DischargeDate
	}
	return schedule.DaysBetween(p.AdmissionDate, end)
}

// DayNumberOn returns the 1-based stay day of date; admission day is day 1.
func (p *Patient) DayNumberOn(date time.Time) int {
	return schedule.DaysBetween(p.AdmissionDate, date) + 1
}

// DisplayName is the name, or the hospital number when no name was recorded.
func (p *Patient) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.HospitalNumber
}
