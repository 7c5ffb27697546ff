// Package rapidapi implements the generation.Provider interface against the
// ChatGPT API published on RapidAPI.
package rapidapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/phrazzld/content-generator/internal/config"
	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/phrazzld/content-generator/internal/generation"
)

const defaultModel = "gpt4"

// ErrEmptyAPIKey is returned when Generate is called without a key.
var ErrEmptyAPIKey = errors.New("rapidapi key cannot be empty")

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages  []message `json:"messages"`
	WebAccess bool      `json:"web_access"`
}

type chatResponse struct {
	Status bool   `json:"status"`
	Result string `json:"result"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Client calls the RapidAPI chat endpoint.
type Client struct {
	logger     *slog.Logger
	httpClient *resty.Client
	host       string
	path       string
}

var _ generation.Provider = (*Client)(nil)

// NewClient creates a Client for cfg. The model name selects the endpoint
// path, e.g. "gpt4" posts to /gpt4.
func NewClient(logger *slog.Logger, cfg config.ProviderConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL cannot be empty", generation.ErrInvalidConfig)
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", generation.ErrInvalidConfig, cfg.BaseURL)
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")

	return &Client{
		logger:     logger.With("component", "rapidapi_client"),
		httpClient: client,
		host:       u.Hostname(),
		path:       "/" + strings.TrimLeft(model, "/"),
	}, nil
}

// Name implements generation.Provider.
func (c *Client) Name() domain.Provider {
	return domain.ProviderRapidAPI
}

// Generate posts the prompt and instruction as a single user message.
func (c *Client) Generate(
	ctx context.Context,
	prompt string,
	settings domain.GenerationSettings,
	apiKey string,
) (domain.GeneratedContent, error) {
	if apiKey == "" {
		return domain.GeneratedContent{}, ErrEmptyAPIKey
	}

	start := time.Now()
	c.logger.InfoContext(ctx, "Sending RapidAPI chat request",
		"path", c.path,
		"prompt_length", len(prompt))

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("x-rapidapi-key", apiKey).
		SetHeader("x-rapidapi-host", c.host).
		SetBody(chatRequest{
			Messages:  []message{{Role: "user", Content: generation.PromptWithInstruction(prompt, settings)}},
			WebAccess: false,
		}).
		Post(c.path)
	duration := time.Since(start)
	if err != nil {
		c.logger.ErrorContext(ctx, "RapidAPI request failed",
			"error_type", fmt.Sprintf("%T", err),
			"duration_ms", duration.Milliseconds())
		return domain.GeneratedContent{}, fmt.Errorf("rapidapi request failed: %w", err)
	}

	if !resp.IsSuccess() {
		var errBody errorResponse
		_ = json.Unmarshal(resp.Body(), &errBody)
		c.logger.ErrorContext(ctx, "RapidAPI error",
			"status_code", resp.StatusCode(),
			"duration_ms", duration.Milliseconds())
		return domain.GeneratedContent{}, generation.NewAPIError(domain.ProviderRapidAPI, resp.StatusCode(), errBody.Message)
	}

	var body chatResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil || !body.Status || body.Result == "" {
		c.logger.WarnContext(ctx, "Invalid response from RapidAPI",
			"status", body.Status,
			"duration_ms", duration.Milliseconds())
		return domain.GeneratedContent{}, fmt.Errorf("%w: %s", generation.ErrInvalidResponse, domain.ProviderRapidAPI)
	}

	parsed := generation.ParseResponse(body.Result)
	c.logger.InfoContext(ctx, "RapidAPI chat response received",
		"duration_ms", duration.Milliseconds(),
		"parse_outcome", parsed.Outcome.String())
	return parsed.Content, nil
}
