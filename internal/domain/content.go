package domain

// MaxTags is the maximum number of tags kept on generated content.
const MaxTags = 10

// GeneratedContent is the canonical record returned to the caller.
// A nil Tags slice means the provider did not return a tag sequence.
type GeneratedContent struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags"`
	MediaURL string   `json:"mediaUrl"`
}
