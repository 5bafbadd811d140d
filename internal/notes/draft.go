package notes

import (
	"strings"
	"sync"
)

// Draft is the editable note state owned by the presentation layer.
// Callers must not mutate a draft while Submit is running on it.
type Draft struct {
	Text     string
	Tags     string
	KeepTags bool
	UseLLM   bool

	mu sync.Mutex
}

// Empty reports whether the draft has no text at all. Whitespace-only text
// is still a note.
func (d *Draft) Empty() bool {
	return d.Text == ""
}

func (d *Draft) reset() {
	d.Text = ""
	if !d.KeepTags {
		d.Tags = ""
	}
}

// Note is the payload accepted by the service.
type Note struct {
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

// Outcome reports what a Submit call did.
type Outcome struct {
	// Skipped is set when the draft was empty and nothing was sent.
	Skipped bool
	Note    Note
	// LLMTags is the raw comma-separated tag string returned by the model.
	LLMTags   string
	RequestID string
}

// AutoTagged reports whether the model contributed any tags.
func (o Outcome) AutoTagged() bool {
	return strings.TrimSpace(o.LLMTags) != ""
}
