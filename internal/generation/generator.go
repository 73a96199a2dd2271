package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
)

// Sampling temperatures per operation.
const (
	temperatureExtraction = 0.3
	temperatureClassify   = 0.5
	temperatureDrafting   = 0.7
)

// recentNoteRunes is how much of a previous note goes into the prompt.
const recentNoteRunes = 100

// DefaultRecordType is used for progress notes requested without a type.
const DefaultRecordType = "住院医师查房"

// Generator turns clinical input into prompts, calls the Completer and parses
// the result.
type Generator struct {
	completer Completer
	prompts   *Prompts
	observer  Observer
	logger    *slog.Logger
}

// NewGenerator creates a Generator. observer may be nil.
func NewGenerator(completer Completer, observer Observer, log *slog.Logger) (*Generator, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer cannot be nil", ErrInvalidConfig)
	}
	prompts, err := LoadPrompts()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	return &Generator{
		completer: completer,
		prompts:   prompts,
		observer:  observer,
		logger:    log.With(slog.String("component", "generator")),
	}, nil
}

func (g *Generator) complete(ctx context.Context, req Request) (*Response, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	tokens := CountTokens(req.System) + CountTokens(req.Prompt)
	log.DebugContext(ctx, "sending completion request",
		slog.String("operation", string(req.Operation)),
		slog.Int("prompt_runes", len([]rune(req.Prompt))),
		slog.Int("estimated_prompt_tokens", tokens))

	start := time.Now()
	resp, err := g.completer.Complete(ctx, req)
	elapsed := time.Since(start)

	if err == nil && resp.PromptTokens > 0 {
		tokens = resp.PromptTokens
	}
	if g.observer != nil {
		g.observer.ObserveCompletion(req.Operation, outcomeOf(err), elapsed, tokens)
	}

	if err != nil {
		log.ErrorContext(ctx, "completion failed",
			slog.String("operation", string(req.Operation)),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.InfoContext(ctx, "completion finished",
		slog.String("operation", string(req.Operation)),
		slog.Duration("elapsed", elapsed),
		slog.Int("response_runes", len([]rune(resp.Text))))
	return resp, nil
}

// ExtractPatientInfo reads the demographic and history fields out of an
// initial progress note.
func (g *Generator) ExtractPatientInfo(ctx context.Context, initialNote string) (*PatientInfo, error) {
	if strings.TrimSpace(initialNote) == "" {
		return nil, ErrEmptyInput
	}

	prompt, err := g.prompts.patientInfo(initialNote)
	if err != nil {
		return nil, err
	}

	resp, err := g.complete(ctx, Request{
		Operation:   OpExtractPatientInfo,
		System:      systemExtractPatientInfo,
		Prompt:      prompt,
		Temperature: temperatureExtraction,
	})
	if err != nil {
		return nil, err
	}

	return ParsePatientInfo(resp.Text)
}

// NoteInput is the context for one progress note.
type NoteInput struct {
	Patient        *domain.Patient
	RecordDate     time.Time
	RecordType     string
	DailyCondition string
	// RecentNotes are the latest notes, newest first; at most two are used.
	RecentNotes []*domain.ProgressNote
	Roster      schedule.Roster
	// Knowledge holds reference passages retrieved for the note.
	Knowledge []string
}

// GenerateProgressNote drafts a note and appends the signature block for the
// record type.
func (g *Generator) GenerateProgressNote(ctx context.Context, in NoteInput) (string, error) {
	if in.Patient == nil {
		return "", fmt.Errorf("%w: patient is required", ErrEmptyInput)
	}
	if strings.TrimSpace(in.DailyCondition) == "" {
		return "", fmt.Errorf("%w: daily condition is required", ErrEmptyInput)
	}
	recordType := strings.TrimSpace(in.RecordType)
	if recordType == "" {
		recordType = DefaultRecordType
	}

	eventType, _ := schedule.ParseEventType(recordType)

	recent := make([]string, 0, 2)
	for _, n := range in.RecentNotes {
		if len(recent) == 2 {
			break
		}
		recent = append(recent, n.Excerpt(recentNoteRunes))
	}

	prompt, err := g.prompts.progressNote(progressNoteData{
		Patient:        in.Patient,
		DayNumber:      in.Patient.DayNumberOn(in.RecordDate),
		RecentNotes:    recent,
		DailyCondition: in.DailyCondition,
		RecordType:     recordType,
		TitleDoctor:    schedule.SigningDoctor(eventType, in.Roster),
		Knowledge:      in.Knowledge,
	})
	if err != nil {
		return "", err
	}

	resp, err := g.complete(ctx, Request{
		Operation:   OpProgressNote,
		System:      systemProgressNote,
		Prompt:      prompt,
		Temperature: temperatureDrafting,
	})
	if err != nil {
		return "", err
	}

	body := strings.TrimSpace(resp.Text)
	if body == "" {
		return "", fmt.Errorf("%w: empty progress note", ErrInvalidResponse)
	}
	return body + "\n" + schedule.Signature(eventType, in.Roster), nil
}

// GenerateRehabPlan drafts a rehabilitation plan. Output that cannot be parsed
// yields the default plan with Fallback set; completion errors are returned.
func (g *Generator) GenerateRehabPlan(
	ctx context.Context,
	patient *domain.Patient,
	knowledge []string,
) (*RehabPlanDraft, error) {
	if patient == nil {
		return nil, fmt.Errorf("%w: patient is required", ErrEmptyInput)
	}

	prompt, err := g.prompts.rehabPlan(rehabPlanData{Patient: patient, Knowledge: knowledge})
	if err != nil {
		return nil, err
	}

	resp, err := g.complete(ctx, Request{
		Operation:   OpRehabPlan,
		System:      systemRehabPlan,
		Prompt:      prompt,
		Temperature: temperatureDrafting,
	})
	if err != nil {
		return nil, err
	}

	draft, err := ParseRehabPlan(resp.Text)
	if err != nil {
		logger.FromContextOrDefault(ctx, g.logger).WarnContext(ctx, "using default rehab plan",
			slog.String("patient_id", patient.ID.String()),
			slog.String("error", err.Error()))
		return DefaultRehabPlanDraft(), nil
	}
	return draft, nil
}

// ClassifyPhrases asks the model to polish and categorize a formatted phrase
// block and returns the phrases with valid categories.
func (g *Generator) ClassifyPhrases(ctx context.Context, block string) ([]ClassifiedPhrase, error) {
	if strings.TrimSpace(block) == "" {
		return nil, ErrEmptyInput
	}

	prompt, err := g.prompts.classifyPhrases(block)
	if err != nil {
		return nil, err
	}

	resp, err := g.complete(ctx, Request{
		Operation:   OpClassifyPhrases,
		System:      systemClassifyPhrases,
		Prompt:      prompt,
		Temperature: temperatureClassify,
	})
	if err != nil {
		return nil, err
	}

	return ParsePhrases(resp.Text)
}
