package gemini_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/content-generator/internal/config"
	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/phrazzld/content-generator/internal/generation"
	"github.com/phrazzld/content-generator/internal/platform/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "AIzaTestKey0123456789"

type capturedRequest struct {
	path   string
	apiKey string
	body   string
}

// newTestServer starts a fake Gemini endpoint answering with status and body.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		captured.path = r.URL.Path
		captured.apiKey = r.Header.Get("x-goog-api-key")
		captured.body = string(raw)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func newGenerator(t *testing.T, baseURL string) *gemini.GeminiGenerator {
	t.Helper()

	g, err := gemini.NewGeminiGenerator(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		config.ProviderConfig{BaseURL: baseURL + "/", Model: "gemini-2.0-flash-exp", MaxOutputTokens: 1500},
		nil,
	)
	require.NoError(t, err)
	return g
}

var testSettings = domain.GenerationSettings{Tone: "casual", CreativityLevel: 50, TargetAudience: "general"}

func TestGeminiGenerator_Generate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server, captured := newTestServer(t, http.StatusOK, `{
			"candidates": [{
				"content": {
					"role": "model",
					"parts": [{"text": "{\"title\":\"Tip\",\"body\":\"Stretch for five minutes every hour.\",\"tags\":[\"health\"],\"mediaUrl\":\"\"}"}]
				}
			}]
		}`)
		g := newGenerator(t, server.URL)

		got, err := g.Generate(context.Background(), "Write a tip", testSettings, testKey)

		require.NoError(t, err)
		assert.Equal(t, domain.GeneratedContent{
			Title:    "Tip",
			Body:     "Stretch for five minutes every hour.",
			Tags:     []string{"health"},
			MediaURL: "",
		}, got)

		assert.True(t, strings.HasSuffix(captured.path, "gemini-2.0-flash-exp:generateContent"), captured.path)
		assert.Equal(t, testKey, captured.apiKey)
		assert.Contains(t, captured.body, "Write a tip")
		assert.Contains(t, captured.body, "casual tone")
		assert.Contains(t, captured.body, "HARM_CATEGORY_HARASSMENT")
		assert.Contains(t, captured.body, "HARM_CATEGORY_HATE_SPEECH")
		assert.Contains(t, captured.body, "BLOCK_MEDIUM_AND_ABOVE")
		assert.Contains(t, captured.body, "1500")
	})

	t.Run("API error carries provider message", func(t *testing.T) {
		server, _ := newTestServer(t, http.StatusBadRequest,
			`{"error": {"code": 400, "message": "API key not valid. Please pass a valid API key.", "status": "INVALID_ARGUMENT"}}`)
		g := newGenerator(t, server.URL)

		_, err := g.Generate(context.Background(), "Write a tip", testSettings, testKey)

		require.Error(t, err)
		assert.ErrorIs(t, err, generation.ErrProviderAPI)
		assert.Equal(t, "Gemini API error: API key not valid. Please pass a valid API key.", err.Error())
	})

	t.Run("unparseable error body uses generic message", func(t *testing.T) {
		server, _ := newTestServer(t, http.StatusInternalServerError, `not json`)
		g := newGenerator(t, server.URL)

		_, err := g.Generate(context.Background(), "Write a tip", testSettings, testKey)

		assert.ErrorIs(t, err, generation.ErrProviderAPI)
		assert.Equal(t, "Gemini API error: API request failed", err.Error())
	})

	t.Run("JSON error body without error object uses generic message", func(t *testing.T) {
		server, _ := newTestServer(t, http.StatusServiceUnavailable, `{"message":"upstream unavailable"}`)
		g := newGenerator(t, server.URL)

		var err error
		require.NotPanics(t, func() {
			_, err = generation.CallWithTimeout(context.Background(),
				generation.RetryPolicy{Timeout: 5 * time.Second},
				func(ctx context.Context) (domain.GeneratedContent, error) {
					return g.Generate(ctx, "Write a tip", testSettings, testKey)
				})
		})

		assert.ErrorIs(t, err, generation.ErrProviderAPI)
		assert.Equal(t, "Gemini API error: API request failed", err.Error())
	})

	t.Run("no candidates", func(t *testing.T) {
		server, _ := newTestServer(t, http.StatusOK, `{"candidates": []}`)
		g := newGenerator(t, server.URL)

		_, err := g.Generate(context.Background(), "Write a tip", testSettings, testKey)

		assert.ErrorIs(t, err, generation.ErrNoContent)
	})

	t.Run("plain text response uses fallback record", func(t *testing.T) {
		server, _ := newTestServer(t, http.StatusOK,
			`{"candidates": [{"content": {"parts": [{"text": "Just some prose without JSON."}]}}]}`)
		g := newGenerator(t, server.URL)

		got, err := g.Generate(context.Background(), "Write a tip", testSettings, testKey)

		require.NoError(t, err)
		assert.Equal(t, generation.FallbackTitle, got.Title)
		assert.Equal(t, "Just some prose without JSON.", got.Body)
	})

	t.Run("empty key", func(t *testing.T) {
		g := newGenerator(t, "http://127.0.0.1:0")
		_, err := g.Generate(context.Background(), "p", testSettings, "")
		assert.ErrorIs(t, err, gemini.ErrEmptyAPIKey)
	})
}

func TestNewGeminiGenerator(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := gemini.NewGeminiGenerator(nil, config.ProviderConfig{BaseURL: "http://x", Model: "m"}, nil)
	assert.Error(t, err)

	_, err = gemini.NewGeminiGenerator(logger, config.ProviderConfig{BaseURL: "http://x"}, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = gemini.NewGeminiGenerator(logger, config.ProviderConfig{Model: "m"}, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	g, err := gemini.NewGeminiGenerator(logger, config.ProviderConfig{BaseURL: "http://x", Model: "m"}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGemini, g.Name())
}
