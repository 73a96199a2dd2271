package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	oai "github.com/sashabaranov/go-openai"
)

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusRequestTimeout ||
		code >= http.StatusInternalServerError
}

// classifyError maps go-openai errors onto the generation error sentinels.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *oai.APIError
	if errors.As(err, &apiErr) {
		if isTransientStatus(apiErr.HTTPStatusCode) {
			return fmt.Errorf("%w: API returned %d: %v", generation.ErrTransientFailure, apiErr.HTTPStatusCode, err)
		}
		if apiErr.Code == "content_filter" || apiErr.Type == "content_filter" {
			return fmt.Errorf("%w: %v", generation.ErrContentBlocked, err)
		}
		return fmt.Errorf("%w: API returned %d: %v", generation.ErrGenerationFailed, apiErr.HTTPStatusCode, err)
	}

	var reqErr *oai.RequestError
	if errors.As(err, &reqErr) {
		if isTransientStatus(reqErr.HTTPStatusCode) {
			return fmt.Errorf("%w: request failed with %d: %v", generation.ErrTransientFailure, reqErr.HTTPStatusCode, err)
		}
		return fmt.Errorf("%w: request failed with %d: %v", generation.ErrGenerationFailed, reqErr.HTTPStatusCode, err)
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
