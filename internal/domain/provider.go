package domain

import (
	"log/slog"
)

// Provider names an external LLM generation service.
type Provider string

// Supported providers.
const (
	ProviderGroq     Provider = "groq"
	ProviderGemini   Provider = "gemini"
	ProviderRapidAPI Provider = "rapidapi"
)

// Providers returns every supported provider in natural fallback order.
func Providers() []Provider {
	return []Provider{ProviderGroq, ProviderGemini, ProviderRapidAPI}
}

// ParseProvider maps a stored provider name to a Provider.
// The second return value is false for names this service does not support.
func ParseProvider(name string) (Provider, bool) {
	switch p := Provider(name); p {
	case ProviderGroq, ProviderGemini, ProviderRapidAPI:
		return p, true
	default:
		return "", false
	}
}

// DisplayName returns the provider name as shown to users.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderGroq:
		return "Groq"
	case ProviderGemini:
		return "Gemini"
	case ProviderRapidAPI:
		return "RapidAPI"
	default:
		return string(p)
	}
}

// String implements fmt.Stringer.
func (p Provider) String() string {
	return string(p)
}

// Credential is a single (provider name, key) row owned by a requester.
// Name is kept as stored so unsupported providers can be reported.
type Credential struct {
	Name string
	Key  string
}

// LogValue keeps the key out of structured logs.
func (c Credential) LogValue() slog.Value {
	return slog.GroupValue(slog.String("name", c.Name), slog.Bool("key_present", c.Key != ""))
}

// ProviderCredentials maps each provider to the requester's secret key.
// It is request-scoped and must never be logged or persisted.
type ProviderCredentials map[Provider]string

// NewProviderCredentials builds ProviderCredentials from store rows.
// Rows naming unsupported providers are ignored; a later row for the same
// provider replaces an earlier one.
func NewProviderCredentials(rows []Credential) ProviderCredentials {
	creds := make(ProviderCredentials, len(rows))
	for _, row := range rows {
		p, ok := ParseProvider(row.Name)
		if !ok {
			continue
		}
		creds[p] = row.Key
	}
	return creds
}

// ProviderSet returns the providers holding a non-empty key, in natural order.
func (c ProviderCredentials) ProviderSet() []Provider {
	set := make([]Provider, 0, len(c))
	for _, p := range Providers() {
		if c[p] != "" {
			set = append(set, p)
		}
	}
	return set
}

// LogValue implements slog.LogValuer. Only provider names are emitted.
func (c ProviderCredentials) LogValue() slog.Value {
	names := make([]string, 0, len(c))
	for _, p := range c.ProviderSet() {
		names = append(names, p.String())
	}
	return slog.AnyValue(names)
}
