package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rehabdesk/rehabdesk-api/internal/config"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
)

// validateConfig checks the settings a Gemini completer cannot run without.
// Out-of-range retry settings only produce a warning because the retry policy
// falls back to defaults.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) error {
	if cfg.APIKey == "" {
		logger.ErrorContext(ctx, "missing Gemini API key")
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.Model == "" {
		logger.ErrorContext(ctx, "missing Gemini model name")
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.MaxRetries < 0 {
		logger.WarnContext(ctx, "invalid max_retries value, using default",
			slog.Int("value", cfg.MaxRetries))
	}

	if cfg.BaseDelay <= 0 {
		logger.WarnContext(ctx, "invalid base_delay value, using default",
			slog.Duration("value", cfg.BaseDelay))
	}

	return nil
}
