package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
)

// Common validation errors for rehabilitation plans and progress
var (
	ErrEmptyPlanPatientID   = errors.New("rehab plan patient ID cannot be empty")
	ErrEmptyTrainingItem    = errors.New("training item name cannot be empty")
	ErrInvalidProgressScore = errors.New("progress score must be between 1 and 5")
	ErrEmptyProgressContent = errors.New("progress content cannot be empty")
)

// TrainingItem is one exercise of a training plan.
type TrainingItem struct {
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
	Sets      string `json:"sets"`
	Intensity string `json:"intensity"`
	Notes     string `json:"notes"`
}

// RehabPlan holds a patient's rehabilitation goals and training plan. A patient
// has at most one plan.
type RehabPlan struct {
	ID             uuid.UUID      `json:"id"`
	PatientID      uuid.UUID      `json:"patient_id"`
	HospitalNumber string         `json:"hospital_number"`
	ShortTermGoals string         `json:"short_term_goals"`
	LongTermGoals  string         `json:"long_term_goals"`
	TrainingPlan   []TrainingItem `json:"training_plan"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewRehabPlan creates a plan for patient.
func NewRehabPlan(patient *Patient, shortTerm, longTerm string, items []TrainingItem) (*RehabPlan, error) {
	now := time.Now().UTC()
	plan := &RehabPlan{
		ID:             uuid.New(),
		PatientID:      patient.ID,
		HospitalNumber: patient.HospitalNumber,
		ShortTermGoals: shortTerm,
		LongTermGoals:  longTerm,
		TrainingPlan:   items,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if plan.TrainingPlan == nil {
		plan.TrainingPlan = []TrainingItem{}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}

// Validate checks if the RehabPlan has valid data.
func (p *RehabPlan) Validate() error {
	if p.ID == uuid.Nil {
		return ErrInvalidID
	}
	if p.PatientID == uuid.Nil {
		return ErrEmptyPlanPatientID
	}
	for _, item := range p.TrainingPlan {
		if item.Name == "" {
			return ErrEmptyTrainingItem
		}
	}
	return nil
}

// Replace overwrites the goals and training plan, keeping identity.
func (p *RehabPlan) Replace(shortTerm, longTerm string, items []TrainingItem) error {
	p.ShortTermGoals = shortTerm
	p.LongTermGoals = longTerm
	p.TrainingPlan = items
	if p.TrainingPlan == nil {
		p.TrainingPlan = []TrainingItem{}
	}
	p.UpdatedAt = time.Now().UTC()
	return p.Validate()
}

// Goals used when a generated plan cannot be parsed.
const (
	DefaultShortTermGoals = "短期目标：改善患者功能状态，提高日常生活活动能力"
	DefaultLongTermGoals  = "长期目标：最大限度恢复患者功能，回归家庭和社会"
)

// DefaultTrainingPlan returns the fallback three-item plan.
func DefaultTrainingPlan() []TrainingItem {
	return []TrainingItem{
		{Name: "关节活动度训练", Frequency: "每日2次", Duration: "20分钟", Sets: "3组", Intensity: "中等强度", Notes: "在无痛范围内进行"},
		{Name: "肌力训练", Frequency: "每日1次", Duration: "30分钟", Sets: "3-4组", Intensity: "渐进抗阻", Notes: "根据患者耐受情况调整"},
		{Name: "平衡训练", Frequency: "每日1次", Duration: "15分钟", Sets: "2-3组", Intensity: "中等强度", Notes: "注意保护，防止跌倒"},
	}
}

// RehabProgress is a dated progress entry scored from 1 to 5.
type RehabProgress struct {
	ID             uuid.UUID `json:"id"`
	PatientID      uuid.UUID `json:"patient_id"`
	HospitalNumber string    `json:"hospital_number"`
	RecordDate     time.Time `json:"record_date"`
	Content        string    `json:"content"`
	Score          int       `json:"score"`
	CreatedAt      time.Time `json:"created_at"`
}

// DefaultProgressScore is used when no score is given.
const DefaultProgressScore = 3

// NewRehabProgress creates a progress entry. A zero score takes the default.
func NewRehabProgress(patient *Patient, recordDate time.Time, content string, score int) (*RehabProgress, error) {
	if score == 0 {
		score = DefaultProgressScore
	}
	p := &RehabProgress{
		ID:             uuid.New(),
		PatientID:      patient.ID,
		HospitalNumber: patient.HospitalNumber,
		RecordDate:     schedule.CalendarDay(recordDate),
		Content:        content,
		Score:          score,
		CreatedAt:      time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the RehabProgress has valid data.
func (p *RehabProgress) Validate() error {
	if p.ID == uuid.Nil {
		return ErrInvalidID
	}
	if p.Content == "" {
		return ErrEmptyProgressContent
	}
	if p.Score < 1 || p.Score > 5 {
		return ErrInvalidProgressScore
	}
	if p.RecordDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
