package autotag

import "fmt"

const (
	promptTemplate = `Please generate relevant tags for the following note. Provide only a comma-separated list of tags without any additional text or formatting.

Note:
%s

Tags:`

	defaultMaxTokens = 1024
)

// BuildPrompt embeds noteText in the fixed tagging prompt.
func BuildPrompt(noteText string) string {
	return fmt.Sprintf(promptTemplate, noteText)
}

type completionRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func newCompletionRequest(model, noteText string) completionRequest {
	return completionRequest{
		Model:     model,
		Messages:  []message{{Role: "user", Content: BuildPrompt(noteText)}},
		MaxTokens: defaultMaxTokens,
	}
}
