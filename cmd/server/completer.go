package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rehabdesk/rehabdesk-api/internal/config"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/gemini"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/openai"
)

// unconfiguredCompleter stands in when no API key is set, so the AI routes
// answer 503 instead of the server refusing to start.
type unconfiguredCompleter struct{}

func (unconfiguredCompleter) Complete(context.Context, generation.Request) (*generation.Response, error) {
	return nil, fmt.Errorf("%w: no LLM API key configured", generation.ErrInvalidConfig)
}

// newCompleter returns the completion provider named by cfg.LLM.Provider.
func newCompleter(ctx context.Context, cfg *config.Config, log *slog.Logger) (generation.Completer, error) {
	if !cfg.LLMEnabled() {
		log.Warn("LLM API key not set; AI endpoints are disabled")
		return unconfiguredCompleter{}, nil
	}

	switch cfg.LLM.Provider {
	case "openai":
		return openai.NewCompleter(log, cfg.LLM)
	case "gemini":
		return gemini.NewCompleter(ctx, log, cfg.LLM)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.LLM.Provider)
	}
}
