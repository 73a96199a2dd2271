package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/config"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	oai "github.com/sashabaranov/go-openai"
)

// Completer sends chat completion requests to an OpenAI-compatible endpoint.
type Completer struct {
	client      *oai.Client
	model       string
	temperature float32
	timeout     time.Duration
	policy      generation.RetryPolicy
	logger      *slog.Logger
}

var _ generation.Completer = (*Completer)(nil)

// NewCompleter creates a Completer from the LLM configuration.
func NewCompleter(log *slog.Logger, cfg config.LLMConfig) (*Completer, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	clientConfig := oai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &Completer{
		client:      oai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		policy:      generation.RetryPolicy{MaxRetries: cfg.MaxRetries, BaseDelay: cfg.BaseDelay},
		logger:      log.With(slog.String("component", "openai_completer")),
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

	messages := make([]oai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, oai.ChatCompletionMessage{Role: oai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, oai.ChatCompletionMessage{Role: oai.ChatMessageRoleUser, Content: req.Prompt})

	chatReq := oai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}

	log := logger.FromContextOrDefault(ctx, c.logger)

	return generation.WithRetry(ctx, log, c.policy, func(ctx context.Context) (*generation.Response, error) {
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		log.DebugContext(ctx, "calling chat completion API",
			slog.String("model", c.model),
			slog.String("operation", string(req.Operation)))

		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return nil, classifyError(err)
		}
		return toResponse(resp)
	})
}

func toResponse(resp oai.ChatCompletionResponse) (*generation.Response, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == oai.FinishReasonContentFilter {
		return nil, fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, choice.FinishReason)
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return nil, fmt.Errorf("%w: response has no text", generation.ErrInvalidResponse)
	}

	return &generation.Response{
		Text:         choice.Message.Content,
		PromptTokens: resp.Usage.PromptTokens,
		FinishReason: string(choice.FinishReason),
	}, nil
}
