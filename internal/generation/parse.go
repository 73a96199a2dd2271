package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
)

var fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// extractJSON strips markdown fences and any prose around the outermost JSON
// value that starts with open.
func extractJSON(text string, open, closing byte) string {
	s := strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	start := strings.IndexByte(s, open)
	if start < 0 {
		return s
	}
	end := strings.LastIndexByte(s, closing)
	if end < start {
		return s[start:]
	}
	return s[start : end+1]
}

// decodeJSON unmarshals model output into v, repairing malformed JSON first
// when a plain decode fails.
func decodeJSON(raw string, v interface{}) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	err := json.Unmarshal([]byte(raw), v)
	if err == nil {
		return nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(raw)
	if repairErr != nil {
		return fmt.Errorf("%w: malformed JSON: %v", ErrInvalidResponse, err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("%w: malformed JSON after repair: %v", ErrInvalidResponse, err)
	}
	return nil
}

// PatientInfo is the structured data extracted from an initial note.
type PatientInfo struct {
	Name           string `json:"name"`
	Gender         string `json:"gender"`
	Age            int    `json:"age"`
	AdmissionDate  string `json:"admission_date"`
	ChiefComplaint string `json:"chief_complaint"`
	Diagnosis      string `json:"diagnosis"`
	PastHistory    string `json:"past_history"`
	AllergyHistory string `json:"allergy_history"`
	SpecialistExam string `json:"specialist_exam"`
}

// flexInt accepts 67, "67" and "67岁".
type flexInt int

var leadingDigits = regexp.MustCompile(`\d+`)

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	digits := leadingDigits.FindString(s)
	if digits == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// DefaultAllergyHistory fills an allergy history the model left blank.
const DefaultAllergyHistory = "无"

// ParsePatientInfo decodes an extraction response. Name, gender, age and
// admission date are required; a blank allergy history becomes "无".
func ParsePatientInfo(text string) (*PatientInfo, error) {
	var raw struct {
		PatientInfo
		Age flexInt `json:"age"`
	}
	if err := decodeJSON(extractJSON(text, '{', '}'), &raw); err != nil {
		return nil, err
	}

	info := raw.PatientInfo
	info.Age = int(raw.Age)
	trimFields(&info.Name, &info.Gender, &info.AdmissionDate, &info.ChiefComplaint,
		&info.Diagnosis, &info.PastHistory, &info.AllergyHistory, &info.SpecialistExam)

	var missing []string
	if info.Name == "" {
		missing = append(missing, "name")
	}
	if info.Gender == "" {
		missing = append(missing, "gender")
	}
	if info.Age <= 0 {
		missing = append(missing, "age")
	}
	if info.AdmissionDate == "" {
		missing = append(missing, "admission_date")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", ErrInvalidResponse, strings.Join(missing, ", "))
	}

	if info.AllergyHistory == "" {
		info.AllergyHistory = DefaultAllergyHistory
	}
	return &info, nil
}

func trimFields(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// RehabPlanDraft is a generated plan before it is attached to a patient.
type RehabPlanDraft struct {
	ShortTermGoals string                `json:"short_term_goals"`
	LongTermGoals  string                `json:"long_term_goals"`
	TrainingPlan   []domain.TrainingItem `json:"training_plan"`
	// Fallback is set when the model output could not be used.
	Fallback bool `json:"-"`
}

// DefaultRehabPlanDraft is the plan used when generation output is unusable.
func DefaultRehabPlanDraft() *RehabPlanDraft {
	return &RehabPlanDraft{
		ShortTermGoals: domain.DefaultShortTermGoals,
		LongTermGoals:  domain.DefaultLongTermGoals,
		TrainingPlan:   domain.DefaultTrainingPlan(),
		Fallback:       true,
	}
}

// ParseRehabPlan decodes a plan response. Training items without a name are
// dropped; a plan with neither goals nor items is invalid.
func ParseRehabPlan(text string) (*RehabPlanDraft, error) {
	var draft RehabPlanDraft
	if err := decodeJSON(extractJSON(text, '{', '}'), &draft); err != nil {
		return nil, err
	}

	draft.ShortTermGoals = strings.TrimSpace(draft.ShortTermGoals)
	draft.LongTermGoals = strings.TrimSpace(draft.LongTermGoals)
	items := make([]domain.TrainingItem, 0, len(draft.TrainingPlan))
	for _, item := range draft.TrainingPlan {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name != "" {
			items = append(items, item)
		}
	}
	draft.TrainingPlan = items

	if draft.ShortTermGoals == "" && draft.LongTermGoals == "" && len(items) == 0 {
		return nil, fmt.Errorf("%w: empty rehabilitation plan", ErrInvalidResponse)
	}
	return &draft, nil
}

// ClassifiedPhrase is a reusable phrase with its taxonomy category.
type ClassifiedPhrase struct {
	Content  string `json:"content"`
	Category string `json:"category"`
}

// ParsePhrases decodes a classification response and keeps the phrases whose
// category is a known "大类-二级" pair. Duplicate contents are kept once.
func ParsePhrases(text string) ([]ClassifiedPhrase, error) {
	var raw []ClassifiedPhrase
	if err := decodeJSON(extractJSON(text, '[', ']'), &raw); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(raw))
	phrases := make([]ClassifiedPhrase, 0, len(raw))
	for _, p := range raw {
		p.Content = strings.TrimSpace(p.Content)
		p.Category = strings.TrimSpace(p.Category)
		if p.Content == "" || seen[p.Content] {
			continue
		}
		top, sub, err := domain.ParseCategory(p.Category)
		if err != nil {
			continue
		}
		p.Category = domain.Category(top, sub)
		seen[p.Content] = true
		phrases = append(phrases, p)
	}
	return phrases, nil
}
