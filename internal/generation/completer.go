package generation

import (
	"context"
	"errors"
	"time"
)

// Operation names a kind of generation request for logging and metrics.
type Operation string

const (
	OpExtractPatientInfo Operation = "extract_patient_info"
	OpProgressNote       Operation = "progress_note"
	OpRehabPlan          Operation = "rehab_plan"
	OpClassifyPhrases    Operation = "classify_phrases"
)

// Request is one chat-style completion request.
type Request struct {
	Operation Operation
	System    string
	Prompt    string
	// Temperature overrides the provider default when positive.
	Temperature float32
}

// Response is the text a model returned.
type Response struct {
	Text string
	// PromptTokens is the provider's count, or zero when it reports none.
	PromptTokens int
	FinishReason string
}

// Completer is implemented by model providers. Implementations classify
// failures with ErrTransientFailure, ErrContentBlocked or ErrInvalidResponse.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Observer receives one call per finished completion.
type Observer interface {
	ObserveCompletion(op Operation, outcome string, elapsed time.Duration, promptTokens int)
}

// Completion outcomes reported to an Observer.
const (
	OutcomeSuccess   = "success"
	OutcomeBlocked   = "blocked"
	OutcomeInvalid   = "invalid"
	OutcomeTransient = "transient"
	OutcomeError     = "error"
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrContentBlocked):
		return OutcomeBlocked
	case errors.Is(err, ErrInvalidResponse):
		return OutcomeInvalid
	case errors.Is(err, ErrTransientFailure):
		return OutcomeTransient
	default:
		return OutcomeError
	}
}
