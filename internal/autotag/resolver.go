package autotag

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"braindump/internal/api"
	"braindump/internal/logging"
	"braindump/internal/services"
)

// Resolver produces raw comma-separated LLM tags for a note.
type Resolver struct {
	client api.Sender
	logger *slog.Logger
}

// NewResolver constructs a Resolver that sends through client.
func NewResolver(client api.Sender, logger *slog.Logger) *Resolver {
	return &Resolver{
		client: client,
		logger: logging.NewComponentLogger(logger, "autotag"),
	}
}

// ResolveAsync starts tag resolution and returns a channel that receives
// exactly one value and is then closed. With useLLM false the channel is
// already filled with "" and no request is made.
func (r *Resolver) ResolveAsync(ctx context.Context, noteText string, useLLM bool, model string) <-chan string {
	done := make(chan string, 1)
	if !useLLM {
		done <- ""
		close(done)
		return done
	}
	go func() {
		defer close(done)
		done <- r.fetch(ctx, noteText, model)
	}()
	return done
}

// Resolve blocks until tag resolution completes. It returns "" when
// auto-tagging is off, when the request fails, or when ctx ends first.
func (r *Resolver) Resolve(ctx context.Context, noteText string, useLLM bool, model string) string {
	result := r.ResolveAsync(ctx, noteText, useLLM, model)
	select {
	case tags := <-result:
		return tags
	case <-ctx.Done():
		return ""
	}
}

func (r *Resolver) fetch(ctx context.Context, noteText, model string) string {
	ctx = services.WithComponent(ctx, "autotag")
	logger := logging.WithContext(ctx, r.logger)
	if strings.TrimSpace(model) == "" {
		logger.Debug("no tagging model preference; sending empty model")
	}

	value, err := r.client.Send(ctx, http.MethodPost, api.PathAI, newCompletionRequest(model, noteText), true)
	if err != nil {
		logging.WarnWithContext(logger, "auto-tagging request failed", "auto_tag_failed",
			logging.Error(err),
			logging.ErrorKind(err),
			logging.String(logging.FieldImpact, "note submitted with manual tags only"),
		)
		return ""
	}

	text, ok := value.Field("content").Index(0).Field("text").AsString()
	if !ok {
		malformed := services.Wrap(services.ErrMalformedResponse, "autotag", "decode completion", "expected content[0].text", nil)
		logging.WarnWithContext(logger, "auto-tagging response malformed", "auto_tag_malformed",
			logging.Error(malformed),
			logging.ErrorKind(malformed),
			logging.String(logging.FieldImpact, "note submitted with manual tags only"),
		)
		return ""
	}
	logger.Info("note auto-tagged", logging.Args(logging.String("llm_tags", text))...)
	return text
}
