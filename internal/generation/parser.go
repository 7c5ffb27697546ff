package generation

import (
	"encoding/json"
	"strings"

	"github.com/phrazzld/content-generator/internal/domain"
)

// ParseOutcome tells how a provider response was turned into content.
type ParseOutcome int

const (
	// ParsedDirect means the whole response was a JSON object.
	ParsedDirect ParseOutcome = iota
	// ParsedEmbedded means a JSON object was found inside surrounding prose.
	ParsedEmbedded
	// ParsedFallback means no JSON object was found and the raw text became the body.
	ParsedFallback
)

func (o ParseOutcome) String() string {
	switch o {
	case ParsedDirect:
		return "direct"
	case ParsedEmbedded:
		return "embedded"
	default:
		return "fallback"
	}
}

// FallbackTitle is the title given to responses that carry no JSON object.
const FallbackTitle = "Generated Content"

// ParseResult is the content extracted from a provider response.
type ParseResult struct {
	Content domain.GeneratedContent
	Outcome ParseOutcome
}

// ParseResponse extracts content from raw provider text. It never fails:
// text without a parseable JSON object becomes the body of a fallback record.
func ParseResponse(raw string) ParseResult {
	if content, ok := decodeContent(raw); ok {
		return ParseResult{Content: content, Outcome: ParsedDirect}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if content, ok := decodeContent(raw[start : end+1]); ok {
			return ParseResult{Content: content, Outcome: ParsedEmbedded}
		}
	}

	return ParseResult{
		Content: domain.GeneratedContent{
			Title:    FallbackTitle,
			Body:     raw,
			Tags:     []string{"ai", "generated"},
			MediaURL: "",
		},
		Outcome: ParsedFallback,
	}
}

// decodeContent decodes text as a JSON object. Fields of the wrong type are
// treated as absent so the validator can reject them.
func decodeContent(text string) (domain.GeneratedContent, bool) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &fields); err != nil || fields == nil {
		return domain.GeneratedContent{}, false
	}

	return domain.GeneratedContent{
		Title:    stringField(fields, "title"),
		Body:     stringField(fields, "body"),
		Tags:     tagsField(fields["tags"]),
		MediaURL: stringField(fields, "mediaUrl"),
	}, true
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// tagsField returns nil unless v is a JSON array. Non-string elements are
// kept as their JSON text.
func tagsField(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	tags := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			tags = append(tags, s)
			continue
		}
		b, err := json.Marshal(item)
		if err != nil {
			continue
		}
		tags = append(tags, string(b))
	}
	return tags
}
