package generation

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/rehabdesk/rehabdesk-api/internal/domain"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

// System messages per operation.
const (
	systemExtractPatientInfo = "你是专业的医疗信息提取助手，擅长从病历中提取结构化数据。"
	systemProgressNote       = "你是中医院康复科的专业医师。"
	systemRehabPlan          = "你是专业的康复治疗师，精通中医康复和现代康复医学。"
	systemClassifyPhrases    = "你是专业的医疗文本分析助手，擅长优化和分类医疗语句。"
)

var promptFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Prompts holds the parsed prompt templates.
type Prompts struct {
	tmpl *template.Template
}

// LoadPrompts parses the embedded prompt templates.
func LoadPrompts() (*Prompts, error) {
	tmpl, err := template.New("prompts").Funcs(promptFuncs).ParseFS(promptFS, "prompts/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt templates: %v", ErrInvalidConfig, err)
	}
	return &Prompts{tmpl: tmpl}, nil
}

func (p *Prompts) render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %s: %w", name, err)
	}
	return buf.String(), nil
}

type patientInfoData struct {
	InitialNote string
}

// patientInfo renders the structured-extraction prompt.
func (p *Prompts) patientInfo(initialNote string) (string, error) {
	return p.render("patient_info.tmpl", patientInfoData{InitialNote: initialNote})
}

type progressNoteData struct {
	Patient        *domain.Patient
	DayNumber      int
	RecentNotes    []string
	DailyCondition string
	RecordType     string
	TitleDoctor    string
	Knowledge      []string
}

// progressNote renders the progress note prompt.
func (p *Prompts) progressNote(data progressNoteData) (string, error) {
	return p.render("progress_note.tmpl", data)
}

type rehabPlanData struct {
	Patient   *domain.Patient
	Knowledge []string
}

// rehabPlan renders the rehabilitation plan prompt.
func (p *Prompts) rehabPlan(data rehabPlanData) (string, error) {
	return p.render("rehab_plan.tmpl", data)
}

type classifyData struct {
	Block    string
	Taxonomy []domain.PhraseCategory
}

// classifyPhrases renders the phrase classification prompt for a formatted
// candidate block.
func (p *Prompts) classifyPhrases(block string) (string, error) {
	return p.render("classify_phrases.tmpl", classifyData{Block: block, Taxonomy: domain.Taxonomy})
}
