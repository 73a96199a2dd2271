package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"google.golang.org/genai"
)

// classifyError maps a failed GenerateContent call onto the generation error
// sentinels. Rate limits, server errors, timeouts and network failures are
// transient; other API errors are permanent.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests,
			apiErr.Code == http.StatusRequestTimeout,
			apiErr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: gemini API returned %d: %v", generation.ErrTransientFailure, apiErr.Code, err)
		case apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToUpper(apiErr.Status), "SAFETY"):
			return fmt.Errorf("%w: %v", generation.ErrContentBlocked, err)
		default:
			return fmt.Errorf("%w: gemini API returned %d: %v", generation.ErrGenerationFailed, apiErr.Code, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: network error: %v", generation.ErrTransientFailure, err)
	}

	return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
}

var blockingFinishReasons = map[genai.FinishReason]bool{
	genai.FinishReasonSafety:            true,
	genai.FinishReasonBlocklist:         true,
	genai.FinishReasonProhibitedContent: true,
}

// toResponse extracts the first candidate's text, reporting blocked prompts
// and empty output as errors.
func toResponse(resp *genai.GenerateContentResponse) (*generation.Response, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: prompt blocked: %s", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if blockingFinishReasons[candidate.FinishReason] {
		return nil, fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, candidate.FinishReason)
	}
	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		text.WriteString(part.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, fmt.Errorf("%w: response has no text", generation.ErrInvalidResponse)
	}

	out := &generation.Response{
		Text:         text.String(),
		FinishReason: string(candidate.FinishReason),
	}
	if resp.UsageMetadata != nil {
		out.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
	}
	return out, nil
}
