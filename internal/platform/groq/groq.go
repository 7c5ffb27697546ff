// Package groq implements the generation.Provider interface against Groq's
// OpenAI-compatible chat completions API.
package groq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/phrazzld/content-generator/internal/config"
	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/phrazzld/content-generator/internal/generation"
)

const (
	defaultMaxTokens = 1500
	systemPreamble   = "You are a content generator. "
)

// ErrEmptyAPIKey is returned when Generate is called without a key.
var ErrEmptyAPIKey = errors.New("groq api key cannot be empty")

// Client calls Groq for a single requester at a time; the key is supplied per call.
type Client struct {
	logger     *slog.Logger
	config     config.ProviderConfig
	httpClient *http.Client
}

var _ generation.Provider = (*Client)(nil)

// NewClient validates cfg and returns a Client. A nil httpClient means a default client.
func NewClient(logger *slog.Logger, cfg config.ProviderConfig, httpClient *http.Client) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = defaultMaxTokens
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		logger:     logger.With("component", "groq_client"),
		config:     cfg,
		httpClient: httpClient,
	}, nil
}

// Name implements generation.Provider.
func (c *Client) Name() domain.Provider {
	return domain.ProviderGroq
}

// Generate sends the instruction as the system message and the prompt as the
// user message, then parses the first choice.
func (c *Client) Generate(
	ctx context.Context,
	prompt string,
	settings domain.GenerationSettings,
	apiKey string,
) (domain.GeneratedContent, error) {
	if apiKey == "" {
		return domain.GeneratedContent{}, ErrEmptyAPIKey
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = c.config.BaseURL
	clientConfig.HTTPClient = c.httpClient
	client := openai.NewClientWithConfig(clientConfig)

	start := time.Now()
	c.logger.InfoContext(ctx, "Sending chat completion request",
		"model", c.config.Model,
		"prompt_length", len(prompt))

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPreamble + generation.Instruction(settings)},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: generation.SamplingTemperature(settings),
		MaxTokens:   c.config.MaxOutputTokens,
	})
	duration := time.Since(start)
	if err != nil {
		return domain.GeneratedContent{}, c.mapError(ctx, err, duration)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.WarnContext(ctx, "Groq API returned no content", "duration_ms", duration.Milliseconds())
		return domain.GeneratedContent{}, fmt.Errorf("%w: %s", generation.ErrNoContent, domain.ProviderGroq)
	}

	parsed := generation.ParseResponse(resp.Choices[0].Message.Content)
	c.logger.InfoContext(ctx, "Chat completion received",
		"duration_ms", duration.Milliseconds(),
		"completion_tokens", resp.Usage.CompletionTokens,
		"parse_outcome", parsed.Outcome.String())
	return parsed.Content, nil
}

func (c *Client) mapError(ctx context.Context, err error, duration time.Duration) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		c.logger.ErrorContext(ctx, "Groq API error",
			"status_code", apiErr.HTTPStatusCode,
			"type", apiErr.Type,
			"duration_ms", duration.Milliseconds())
		return generation.NewAPIError(domain.ProviderGroq, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		c.logger.ErrorContext(ctx, "Groq API error with unreadable body",
			"status_code", reqErr.HTTPStatusCode,
			"duration_ms", duration.Milliseconds())
		return generation.NewAPIError(domain.ProviderGroq, reqErr.HTTPStatusCode, "")
	}

	c.logger.ErrorContext(ctx, "Groq request failed",
		"error_type", fmt.Sprintf("%T", err),
		"duration_ms", duration.Milliseconds())
	return fmt.Errorf("groq request failed: %w", err)
}
