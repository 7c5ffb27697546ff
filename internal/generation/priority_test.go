package generation_test

import (
	"testing"

	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/phrazzld/content-generator/internal/generation"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hint   string
		want   domain.Provider
		wantOK bool
	}{
		{hint: "", wantOK: false},
		{hint: "groq", want: domain.ProviderGroq, wantOK: true},
		{hint: "llama3-8b-8192", want: domain.ProviderGroq, wantOK: true},
		{hint: "gemini-pro", want: domain.ProviderGemini, wantOK: true},
		{hint: "rapidapi", want: domain.ProviderRapidAPI, wantOK: true},
		{hint: "gpt-4", want: domain.ProviderRapidAPI, wantOK: true},
		{hint: "groq-gemini", want: domain.ProviderGroq, wantOK: true},
		{hint: "GPT-4", wantOK: false},
		{hint: "claude-3", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.hint, func(t *testing.T) {
			got, ok := generation.NormalizeModel(tc.hint)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAttemptOrder(t *testing.T) {
	t.Parallel()

	all := []domain.Provider{domain.ProviderGroq, domain.ProviderGemini, domain.ProviderRapidAPI}

	tests := []struct {
		name string
		set  []domain.Provider
		hint string
		want []domain.Provider
	}{
		{
			name: "gpt hint moves rapidapi first",
			set:  []domain.Provider{domain.ProviderGemini, domain.ProviderRapidAPI},
			hint: "gpt-4o",
			want: []domain.Provider{domain.ProviderRapidAPI, domain.ProviderGemini},
		},
		{
			name: "preferred provider unavailable keeps natural order",
			set:  []domain.Provider{domain.ProviderGroq},
			hint: "gemini-pro",
			want: []domain.Provider{domain.ProviderGroq},
		},
		{
			name: "no hint keeps natural order",
			set:  all,
			hint: "",
			want: all,
		},
		{
			name: "rest keep relative order",
			set:  all,
			hint: "gemini",
			want: []domain.Provider{domain.ProviderGemini, domain.ProviderGroq, domain.ProviderRapidAPI},
		},
		{
			name: "preferred already first",
			set:  all,
			hint: "llama",
			want: all,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := append([]domain.Provider(nil), tc.set...)
			assert.Equal(t, tc.want, generation.AttemptOrder(tc.set, tc.hint))
			assert.Equal(t, before, tc.set, "input set must not change")
		})
	}
}
