package generation

import (
	"strings"

	"github.com/phrazzld/content-generator/internal/domain"
)

// NormalizeModel maps a requested model hint to the provider that serves it.
// Matching is a case-sensitive substring test: "groq" or "llama" selects
// groq, "gemini" selects gemini, "rapidapi" or "gpt" selects rapidapi.
// The second return value is false when the hint selects no provider.
func NormalizeModel(hint string) (domain.Provider, bool) {
	switch {
	case hint == "":
		return "", false
	case strings.Contains(hint, "groq") || strings.Contains(hint, "llama"):
		return domain.ProviderGroq, true
	case strings.Contains(hint, "gemini"):
		return domain.ProviderGemini, true
	case strings.Contains(hint, "rapidapi") || strings.Contains(hint, "gpt"):
		return domain.ProviderRapidAPI, true
	default:
		return "", false
	}
}

// Prioritize returns the attempt order for set. When preferred is in set it
// moves to the front and the rest keep their relative order; otherwise the
// order of set is kept. set is not modified.
func Prioritize(set []domain.Provider, preferred domain.Provider) []domain.Provider {
	order := make([]domain.Provider, 0, len(set))
	for _, p := range set {
		if p == preferred {
			order = append(order, p)
		}
	}
	if len(order) == 0 {
		return append(order, set...)
	}
	for _, p := range set {
		if p != preferred {
			order = append(order, p)
		}
	}
	return order
}

// AttemptOrder derives the provider attempt order from the available set and
// the requested model hint.
func AttemptOrder(set []domain.Provider, hint string) []domain.Provider {
	preferred, ok := NormalizeModel(hint)
	if !ok {
		return Prioritize(set, "")
	}
	return Prioritize(set, preferred)
}
