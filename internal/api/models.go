package api

import (
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
)

// Dates in requests and responses are YYYY-MM-DD strings.

// CreatePatientRequest is the payload of POST /patients.
type CreatePatientRequest struct {
	HospitalNumber string  `json:"hospital_number" validate:"required,max=50"`
	Name           string  `json:"name"            validate:"max=100"`
	Gender         string  `json:"gender"          validate:"omitempty,oneof=男 女"`
	Age            *int    `json:"age"             validate:"omitempty,gte=0,lte=150"`
	AdmissionDate  string  `json:"admission_date"  validate:"required,datetime=2006-01-02"`
	DischargeDate  *string `json:"discharge_date"  validate:"omitempty,datetime=2006-01-02"`
	ChiefComplaint string  `json:"chief_complaint"`
	Diagnosis      string  `json:"diagnosis"`
	PastHistory    string  `json:"past_history"`
	AllergyHistory string  `json:"allergy_history"`
	SpecialistExam string  `json:"specialist_exam"`
	InitialNote    string  `json:"initial_note"`
}

// UpdatePatientRequest is the payload of PUT /patients/{hn}; omitted fields
// keep their value.
type UpdatePatientRequest struct {
	Name           *string `json:"name"            validate:"omitempty,max=100"`
	Gender         *string `json:"gender"          validate:"omitempty,oneof=男 女"`
	Age            *int    `json:"age"             validate:"omitempty,gte=0,lte=150"`
	AdmissionDate  *string `json:"admission_date"  validate:"omitempty,datetime=2006-01-02"`
	DischargeDate  *string `json:"discharge_date"  validate:"omitempty,datetime=2006-01-02"`
	ChiefComplaint *string `json:"chief_complaint"`
	Diagnosis      *string `json:"diagnosis"`
	PastHistory    *string `json:"past_history"`
	AllergyHistory *string `json:"allergy_history"`
	SpecialistExam *string `json:"specialist_exam"`
	InitialNote    *string `json:"initial_note"`
}

// PatientResponse is a patient with its current day of stay.
type PatientResponse struct {
	*domain.Patient
	DaysInHospital int `json:"days_in_hospital"`
}

// CompleteReminderResponse is returned by PUT /reminders/{id}/complete.
type CompleteReminderResponse struct {
	Message  string           `json:"message"`
	Reminder *domain.Reminder `json:"reminder"`
}

// InitializeRemindersResponse is returned by POST /reminders/patient/{hn}/initialize.
type InitializeRemindersResponse struct {
	Message   string             `json:"message"`
	Count     int                `json:"count"`
	Reminders []*domain.Reminder `json:"reminders"`
}

// CreateNoteRequest is the payload of POST /notes.
type CreateNoteRequest struct {
	HospitalNumber   string `json:"hospital_number"   validate:"required,max=50"`
	RecordDate       string `json:"record_date"       validate:"omitempty,datetime=2006-01-02"`
	RecordType       string `json:"record_type"       validate:"max=50"`
	DailyCondition   string `json:"daily_condition"`
	GeneratedContent string `json:"generated_content"`
}

// UpdateNoteRequest is the payload of PUT /notes/{id}.
type UpdateNoteRequest struct {
	DailyCondition   *string `json:"daily_condition"`
	GeneratedContent *string `json:"generated_content"`
}

// TemplateRequest is the payload of POST /templates and PUT /templates/{id}.
type TemplateRequest struct {
	Category string `json:"category"      validate:"required,max=50"`
	Name     string `json:"template_name" validate:"max=100"`
	Content  string `json:"content"       validate:"required"`
}

// UseTemplateResponse reports the new usage count.
type UseTemplateResponse struct {
	Message    string `json:"message"`
	UsageCount int    `json:"usage_count"`
}

// ExtractPhrasesRequest is the JSON form of POST /templates/extract-phrases.
// Empty content yields an empty phrase list.
type ExtractPhrasesRequest struct {
	Content string `json:"content"`
}

// ExtractPhrasesResponse lists the classified phrases.
type ExtractPhrasesResponse struct {
	Phrases          []generation.ClassifiedPhrase `json:"phrases"`
	TotalExtracted   int                           `json:"total_extracted"`
	PreprocessedFrom int                           `json:"preprocessed_from"`
	Message          string                        `json:"message,omitempty"`
}

// BatchTemplatesRequest is the payload of POST /templates/batch.
type BatchTemplatesRequest struct {
	Phrases []BatchPhrase `json:"phrases" validate:"required,min=1,max=500,dive"`
}

// BatchPhrase is one phrase to save.
type BatchPhrase struct {
	Content  string `json:"content"`
	Category string `json:"category" validate:"required,max=50"`
}

// BatchTemplatesResponse reports how many templates were created.
type BatchTemplatesResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// RehabPlanRequest is the payload of POST /rehab-plans/patient/{hn}.
type RehabPlanRequest struct {
	ShortTermGoals string                `json:"short_term_goals"`
	LongTermGoals  string                `json:"long_term_goals"`
	TrainingPlan   []domain.TrainingItem `json:"training_plan" validate:"max=50"`
}

// ProgressRequest is the payload of POST /rehab-plans/{hn}/progress. A
// missing score takes the default.
type ProgressRequest struct {
	RecordDate string `json:"record_date" validate:"omitempty,datetime=2006-01-02"`
	Content    string `json:"content"     validate:"required"`
	Score      int    `json:"score"       validate:"gte=0,lte=5"`
}

// ExtractPatientInfoRequest is the payload of POST /ai/extract-patient-info.
type ExtractPatientInfoRequest struct {
	InitialNote string `json:"initial_note" validate:"required"`
}

// GenerateNoteRequest is the payload of POST /ai/generate-note. A missing
// use_knowledge_base is true.
type GenerateNoteRequest struct {
	HospitalNumber   string           `json:"hospital_number"    validate:"required,max=50"`
	RecordDate       string           `json:"record_date"        validate:"omitempty,datetime=2006-01-02"`
	RecordType       string           `json:"record_type"        validate:"max=50"`
	DailyCondition   string           `json:"daily_condition"`
	UseKnowledgeBase *bool            `json:"use_knowledge_base"`
	DoctorInfo       *schedule.Roster `json:"doctor_info"`
}

// GenerateRehabPlanRequest is the payload of POST /ai/generate-rehab-plan.
type GenerateRehabPlanRequest struct {
	HospitalNumber string `json:"hospital_number" validate:"required,max=50"`
}

// KnowledgeSearchRequest is the payload of POST /knowledge/search.
type KnowledgeSearchRequest struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"top_k" validate:"gte=0,lte=50"`
}

// RecordsRequest is the payload of POST /schedule/records. A nil seed draws
// fresh decoration.
type RecordsRequest struct {
	AdmissionDate string          `json:"admission_date" validate:"required,datetime=2006-01-02"`
	DischargeDate string          `json:"discharge_date" validate:"required,datetime=2006-01-02"`
	Cadence       string          `json:"cadence"        validate:"omitempty,oneof=weekday escalation"`
	Roster        schedule.Roster `json:"roster"`
	Seed          *uint64         `json:"seed"`
}

// RecordsResponse lists the rendered records.
type RecordsResponse struct {
	Count   int               `json:"count"`
	Records []schedule.Record `json:"records"`
}

// ScheduleResponse lists a previewed schedule.
type ScheduleResponse struct {
	Count  int                           `json:"count"`
	Events []schedule.DocumentationEvent `json:"events"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
