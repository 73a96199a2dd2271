package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/config"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"google.golang.org/genai"
)

// Completer sends completion requests to a Gemini model.
type Completer struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	policy      generation.RetryPolicy
	logger      *slog.Logger
}

var _ generation.Completer = (*Completer)(nil)

// NewCompleter creates a Completer from the LLM configuration. A non-empty
// BaseURL overrides the public Gemini endpoint.
func NewCompleter(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (*Completer, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	log = log.With(slog.String("component", "gemini_completer"))

	if err := validateConfig(ctx, log, cfg); err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	log.InfoContext(ctx, "gemini completer initialized", slog.String("model", cfg.Model))

	return &Completer{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		policy:      generation.RetryPolicy{MaxRetries: cfg.MaxRetries, BaseDelay: cfg.BaseDelay},
		logger:      log,
	}, nil
}

// Complete implements generation.Completer.
func (c *Completer) Complete(ctx context.Context, req generation.Request) (*generation.Response, error) {
	if req.Prompt == "" {
		return nil, generation.ErrEmptyInput
	}

	temperature := c.temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	genConfig := &genai.GenerateContentConfig{Temperature: &temperature}
	if req.System != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	contents := genai.Text(req.Prompt)

	log := logger.FromContextOrDefault(ctx, c.logger)

	return generation.WithRetry(ctx, log, c.policy, func(ctx context.Context) (*generation.Response, error) {
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		log.DebugContext(ctx, "calling Gemini API",
			slog.String("model", c.model),
			slog.String("operation", string(req.Operation)))

		resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genConfig)
		if err != nil {
			return nil, classifyError(err)
		}
		return toResponse(resp)
	})
}
