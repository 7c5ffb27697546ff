package generation_test

import (
	"strings"
	"testing"

	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/phrazzld/content-generator/internal/generation"
	"github.com/stretchr/testify/assert"
)

func TestInstruction(t *testing.T) {
	t.Parallel()

	settings := domain.GenerationSettings{Tone: "casual", CreativityLevel: 50, TargetAudience: "general"}
	got := generation.Instruction(settings)

	assert.Contains(t, got, "casual tone")
	assert.Contains(t, got, "50% creativity level")
	assert.Contains(t, got, "target audience: general")
	assert.Contains(t, got, generation.ContentShape)

	full := generation.PromptWithInstruction("Write a tip", settings)
	assert.True(t, strings.HasPrefix(full, "Write a tip\n\n"))
	assert.True(t, strings.HasSuffix(full, got))
}

func TestSamplingTemperature(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.7, generation.SamplingTemperature(domain.GenerationSettings{}), 1e-6)
	assert.InDelta(t, 1.0, generation.SamplingTemperature(domain.GenerationSettings{AITemperature: intPtr(100)}), 1e-6)
	assert.InDelta(t, 0.25, generation.SamplingTemperature(domain.GenerationSettings{AITemperature: intPtr(25)}), 1e-6)
}
