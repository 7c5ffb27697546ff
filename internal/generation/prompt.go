package generation

import (
	"fmt"

	"github.com/phrazzld/content-generator/internal/domain"
)

// ContentShape is the JSON structure every provider is asked to return.
const ContentShape = `{"title": "string", "body": "string", "tags": ["array"], "mediaUrl": "string"}`

// Instruction describes the desired tone, creativity level and audience and
// asks for the ContentShape JSON object.
func Instruction(settings domain.GenerationSettings) string {
	return fmt.Sprintf(
		"Generate content with %s tone, %d%% creativity level, and target audience: %s. Always return valid JSON with the exact structure: %s.",
		settings.Tone, settings.CreativityLevel, settings.TargetAudience, ContentShape,
	)
}

// PromptWithInstruction appends the instruction to prompt for providers that
// take a single message.
func PromptWithInstruction(prompt string, settings domain.GenerationSettings) string {
	return prompt + "\n\n" + Instruction(settings)
}

// SamplingTemperature converts the 0-100 AI temperature setting to the 0-1
// scale providers expect.
func SamplingTemperature(settings domain.GenerationSettings) float32 {
	return float32(settings.Temperature()) / 100
}
