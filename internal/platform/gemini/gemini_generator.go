package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/content-generator/internal/config"
	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/phrazzld/content-generator/internal/generation"
	"google.golang.org/genai"
)

// Fixed sampling parameters sent with every request.
const (
	defaultMaxOutputTokens = 1500
	topP                   = 0.8
	topK                   = 40
)

// safetySettings is the content policy attached to every request.
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
}

// GeminiGenerator implements the generation.Provider interface using
// Google's Gemini API.
type GeminiGenerator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains the provider framing (endpoint, model, output size)
	config config.ProviderConfig

	// httpClient is shared by the per-request genai clients
	httpClient *http.Client
}

var _ generation.Provider = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new instance of GeminiGenerator with the provided dependencies.
//
// Parameters:
//   - logger: A structured logger for operation logging
//   - cfg: Provider configuration containing base URL, model name and output limits
//   - httpClient: HTTP client used for API calls; nil means a default client
//
// Returns:
//   - A properly initialized GeminiGenerator or an error if the configuration is invalid
func NewGeminiGenerator(logger *slog.Logger, cfg config.ProviderConfig, httpClient *http.Client) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = defaultMaxOutputTokens
	}

	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &GeminiGenerator{
		logger:     logger.With("component", "gemini_generator"),
		config:     cfg,
		httpClient: httpClient,
	}, nil
}

// Name implements generation.Provider.
func (g *GeminiGenerator) Name() domain.Provider {
	return domain.ProviderGemini
}

// Generate asks Gemini for content and parses the returned text.
//
// Parameters:
//   - ctx: Context for the operation; its deadline bounds the API call
//   - prompt: The requester's prompt
//   - settings: Tone, creativity, audience and temperature settings
//   - apiKey: The requester's Gemini API key
//
// Returns:
//   - The parsed content, not yet validated
//   - A generation.APIError for non-success answers, an error wrapping
//     generation.ErrNoContent when no text came back, or a transport error
func (g *GeminiGenerator) Generate(
	ctx context.Context,
	prompt string,
	settings domain.GenerationSettings,
	apiKey string,
) (domain.GeneratedContent, error) {
	if apiKey == "" {
		return domain.GeneratedContent{}, ErrEmptyAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  g.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.config.BaseURL},
	})
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	g.logger.InfoContext(ctx, "Making Gemini API call",
		"model", g.config.Model,
		"prompt_length", len(prompt))
	start := time.Now()

	resp, err := g.callModel(ctx, client, prompt, settings)
	if err != nil {
		return domain.GeneratedContent{}, g.mapError(ctx, err)
	}

	text := responseText(resp)
	if text == "" {
		g.logger.WarnContext(ctx, "Gemini API returned no content",
			"duration_ms", time.Since(start).Milliseconds())
		return domain.GeneratedContent{}, fmt.Errorf("%w: %s", generation.ErrNoContent, domain.ProviderGemini)
	}

	parsed := generation.ParseResponse(text)
	g.logger.InfoContext(ctx, "Gemini API call successful",
		"duration_ms", time.Since(start).Milliseconds(),
		"parse_outcome", parsed.Outcome.String())
	return parsed.Content, nil
}

// generateConfig builds the per-request generation settings.
func (g *GeminiGenerator) generateConfig(settings domain.GenerationSettings) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(generation.SamplingTemperature(settings)),
		TopP:            genai.Ptr[float32](topP),
		TopK:            genai.Ptr[float32](topK),
		MaxOutputTokens: int32(g.config.MaxOutputTokens),
		SafetySettings:  safetySettings,
	}
}

// callModel performs the SDK call. The SDK dereferences a nil error object
// when a failure body is JSON without an "error" key; that panic becomes an
// API error with the generic message.
func (g *GeminiGenerator) callModel(
	ctx context.Context,
	client *genai.Client,
	prompt string,
	settings domain.GenerationSettings,
) (resp *genai.GenerateContentResponse, err error) {
	defer func() {
		if p := recover(); p != nil {
			g.logger.ErrorContext(ctx, "Gemini client failed to decode error response",
				"panic", fmt.Sprint(p))
			resp, err = nil, generation.NewAPIError(domain.ProviderGemini, 0, "")
		}
	}()

	return client.Models.GenerateContent(ctx, g.config.Model,
		genai.Text(generation.PromptWithInstruction(prompt, settings)),
		g.generateConfig(settings))
}

// mapError converts SDK errors to generation errors.
func (g *GeminiGenerator) mapError(ctx context.Context, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		g.logger.ErrorContext(ctx, "Gemini API call error",
			"status_code", apiErr.Code,
			"status", apiErr.Status)
		return generation.NewAPIError(domain.ProviderGemini, apiErr.Code, apiErrorMessage(apiErr))
	}

	var providerErr *generation.APIError
	if errors.As(err, &providerErr) {
		return providerErr
	}

	g.logger.ErrorContext(ctx, "Gemini request failed", "error_type", fmt.Sprintf("%T", err))
	return fmt.Errorf("gemini request failed: %w", err)
}

// apiErrorMessage returns the message of a JSON error object. When the body
// was not JSON the SDK copies the raw body into Message and the HTTP status
// line into Status; that text is dropped in favour of the generic message.
func apiErrorMessage(apiErr genai.APIError) string {
	if strings.HasPrefix(apiErr.Status, strconv.Itoa(apiErr.Code)+" ") {
		return ""
	}
	return apiErr.Message
}

// responseText returns the text of the first part of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}
	if part := candidate.Content.Parts[0]; part != nil {
		return part.Text
	}
	return ""
}
