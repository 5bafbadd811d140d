package capability

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"braindump/internal/api"
	"braindump/internal/logging"
	"braindump/internal/services"
)

// Capabilities describes the LLM features available to the session.
type Capabilities struct {
	Anthropic    bool   `json:"anthropic"`
	OpenAI       bool   `json:"openai"`
	TaggingModel string `json:"tagging_model"`
}

// Any reports whether at least one provider key is configured.
func (c Capabilities) Any() bool {
	return c.Anthropic || c.OpenAI
}

// Resolver queries the note service for provider capabilities.
type Resolver struct {
	client api.Sender
	logger *slog.Logger
}

// NewResolver constructs a Resolver backed by client.
func NewResolver(client api.Sender, logger *slog.Logger) *Resolver {
	return &Resolver{
		client: client,
		logger: logging.NewComponentLogger(logger, "capability"),
	}
}

// Resolve runs both provider checks, waits for both, then fetches the
// tagging model when at least one provider is available. It never fails.
func (r *Resolver) Resolve(ctx context.Context) Capabilities {
	ctx = services.WithComponent(ctx, "capability")
	var caps Capabilities

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		caps.Anthropic = r.hasKey(ctx, "anthropic", api.PathCheckAnthropic)
	}()
	go func() {
		defer wg.Done()
		caps.OpenAI = r.hasKey(ctx, "openai", api.PathCheckOpenAI)
	}()
	wg.Wait()

	if caps.Any() {
		caps.TaggingModel = r.taggingModel(ctx)
	}

	logging.WithContext(ctx, r.logger).Info("capabilities resolved",
		logging.Args(
			logging.Bool("anthropic", caps.Anthropic),
			logging.Bool("openai", caps.OpenAI),
			logging.String("tagging_model", caps.TaggingModel),
		)...,
	)
	return caps
}

func (r *Resolver) hasKey(ctx context.Context, provider, path string) bool {
	logger := logging.WithContext(ctx, r.logger).With(logging.String("provider", provider))
	value, err := r.client.Send(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		logging.WarnWithContext(logger, "provider check failed", "capability_check_failed",
			logging.Error(err),
			logging.ErrorKind(err),
			logging.String(logging.FieldImpact, "provider treated as unavailable"),
		)
		return false
	}
	has, ok := value.Field("hasApiKey").AsBool()
	if !ok {
		logging.WarnWithContext(logger, "provider check response malformed", "capability_check_malformed",
			logging.String(logging.FieldErrorKind, "malformed_response"),
			logging.String(logging.FieldErrorHint, "expected boolean hasApiKey"),
			logging.String(logging.FieldImpact, "provider treated as unavailable"),
		)
		return false
	}
	return has
}

func (r *Resolver) taggingModel(ctx context.Context) string {
	logger := logging.WithContext(ctx, r.logger)
	value, err := r.client.Send(ctx, http.MethodGet, api.PathModelPreferences, nil, true)
	if err != nil {
		logging.WarnWithContext(logger, "model preference lookup failed", "model_preferences_failed",
			logging.Error(err),
			logging.ErrorKind(err),
			logging.String(logging.FieldImpact, "tagging requests carry an empty model"),
		)
		return ""
	}
	if !value.Success() {
		logger.Debug("model preference lookup unsuccessful")
		return ""
	}
	model, _ := value.Field("tagModel").AsString()
	return model
}
