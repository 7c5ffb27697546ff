package generation

import (
	"fmt"
	"unicode/utf8"

	"github.com/phrazzld/content-generator/internal/domain"
)

const (
	minBodyFloor       = 10
	truncationFactor   = 10
	truncationEllipsis = "..."
)

// LengthBounds returns the minimum and maximum body length for settings.
// The minimum is half the target length but never below 10; the maximum is
// twice the target length.
func LengthBounds(settings domain.GenerationSettings) (minLength, maxLength int) {
	target := settings.TargetLength()
	minLength = max(minBodyFloor, (target+1)/2)
	maxLength = target * 2
	return minLength, maxLength
}

// ValidateContent enforces the shape and length rules on content and
// returns the normalized record. The input is not modified.
//
// Bodies longer than ten times the maximum length are cut to that ceiling and
// suffixed with "..."; tags default to ["generated", "ai"] when the provider
// did not return a sequence and are capped at domain.MaxTags.
func ValidateContent(content domain.GeneratedContent, settings domain.GenerationSettings) (domain.GeneratedContent, error) {
	if content.Title == "" || content.Body == "" {
		return domain.GeneratedContent{}, ErrMissingFields
	}

	minLength, maxLength := LengthBounds(settings)
	bodyLength := utf8.RuneCountInString(content.Body)
	if bodyLength < minLength {
		return domain.GeneratedContent{}, fmt.Errorf("%w: %d characters, minimum %d", ErrContentTooShort, bodyLength, minLength)
	}

	out := content
	if ceiling := maxLength * truncationFactor; bodyLength > ceiling {
		out.Body = string([]rune(content.Body)[:ceiling]) + truncationEllipsis
	}

	if content.Tags == nil {
		out.Tags = []string{"generated", "ai"}
	} else {
		n := min(len(content.Tags), domain.MaxTags)
		out.Tags = make([]string, n)
		copy(out.Tags, content.Tags[:n])
	}

	return out, nil
}
