package domain

import "strings"

// Default values applied when optional settings are absent or zero.
const (
	DefaultAITemperature = 70
	DefaultContentLength = 60
)

// GenerationSettings shapes the generated content.
type GenerationSettings struct {
	Tone            string `json:"tone"`
	CreativityLevel int    `json:"creativity_level" validate:"min=0,max=100"`
	TargetAudience  string `json:"target_audience"`
	AITemperature   *int   `json:"ai_temperature,omitempty" validate:"omitempty,min=0,max=100"`
	ContentLength   *int   `json:"content_length,omitempty" validate:"omitempty,gte=0"`
}

// Temperature returns the AI temperature on the 0-100 scale, defaulting to 70.
func (s GenerationSettings) Temperature() int {
	if s.AITemperature == nil || *s.AITemperature == 0 {
		return DefaultAITemperature
	}
	return *s.AITemperature
}

// TargetLength returns the desired content length, defaulting to 60.
func (s GenerationSettings) TargetLength() int {
	if s.ContentLength == nil || *s.ContentLength <= 0 {
		return DefaultContentLength
	}
	return *s.ContentLength
}

// GenerationRequest is an inbound content generation request.
// It is treated as immutable once received.
type GenerationRequest struct {
	Prompt         string
	Settings       GenerationSettings
	RequestedModel string
	RequesterID    string
}

// NewGenerationRequest creates a validated GenerationRequest.
func NewGenerationRequest(prompt string, settings GenerationSettings, model, requesterID string) (GenerationRequest, error) {
	req := GenerationRequest{
		Prompt:         prompt,
		Settings:       settings,
		RequestedModel: model,
		RequesterID:    requesterID,
	}
	if err := req.Validate(); err != nil {
		return GenerationRequest{}, err
	}
	return req, nil
}

// Validate checks the fields every request must carry.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if strings.TrimSpace(r.RequesterID) == "" {
		return ErrEmptyRequesterID
	}
	if r.Settings.CreativityLevel < 0 || r.Settings.CreativityLevel > 100 {
		return NewValidationError("creativity_level", "must be between 0 and 100", nil)
	}
	return nil
}
