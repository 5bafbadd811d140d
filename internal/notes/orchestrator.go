package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"braindump/internal/api"
	"braindump/internal/capability"
	"braindump/internal/logging"
	"braindump/internal/services"
	"braindump/internal/tags"
)

// ErrSubmitInProgress is returned when a draft is already being submitted.
var ErrSubmitInProgress = errors.New("submit already in progress")

// Tagger resolves raw LLM tags for a note.
type Tagger interface {
	Resolve(ctx context.Context, noteText string, useLLM bool, model string) string
}

// Recorder persists successful submissions.
type Recorder interface {
	Record(ctx context.Context, outcome Outcome) error
}

// Orchestrator drives draft submission.
type Orchestrator struct {
	client   api.Sender
	tagger   Tagger
	logger   *slog.Logger
	observer Observer
	recorder Recorder
}

// Option customizes the orchestrator.
type Option func(*Orchestrator)

// WithObserver publishes state transitions to fn.
func WithObserver(fn Observer) Option {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

// WithRecorder records successful submissions with rec.
func WithRecorder(rec Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = rec
	}
}

// NewOrchestrator constructs an orchestrator.
func NewOrchestrator(client api.Sender, tagger Tagger, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: client,
		tagger: tagger,
		logger: logging.NewComponentLogger(logger, "notes"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit sends draft to the service. An empty draft is skipped. On success
// the draft text is cleared, and so are its tags unless KeepTags is set.
// On failure the draft is left as it was and the error is returned.
func (o *Orchestrator) Submit(ctx context.Context, draft *Draft, caps capability.Capabilities) (Outcome, error) {
	if draft == nil {
		return Outcome{}, services.Wrap(services.ErrValidation, "notes", "submit", "draft is nil", nil)
	}
	if !draft.mu.TryLock() {
		return Outcome{}, ErrSubmitInProgress
	}
	defer draft.mu.Unlock()

	if draft.Empty() {
		return Outcome{Skipped: true}, nil
	}

	ctx = services.WithComponent(ctx, "notes")
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = services.WithRequestID(ctx, requestID)
	}
	logger := logging.WithContext(ctx, o.logger)

	text := draft.Text
	useLLM := draft.UseLLM && caps.Any()
	if draft.UseLLM && !useLLM {
		logger.Debug("auto-tagging requested but no provider is configured")
	}

	o.notify(StateAutoTagging)
	llmTags := o.tagger.Resolve(ctx, text, useLLM, caps.TaggingModel)

	o.notify(StateMerging)
	note := Note{
		Text: text,
		Tags: tags.Merge(draft.Tags, llmTags),
	}

	o.notify(StateSubmitting)
	if err := o.create(ctx, note); err != nil {
		o.notify(StateFailed)
		logging.ErrorWithContext(logger, "note submission failed", "note_submit_failed",
			logging.Error(err),
			logging.ErrorKind(err),
			logging.Int("tag_count", len(note.Tags)),
			logging.String(logging.FieldErrorHint, "draft kept; retry the submission"),
		)
		return Outcome{}, err
	}

	draft.reset()
	o.notify(StateSucceeded)
	logger.Info("note submitted", logging.Args(logging.Int("tag_count", len(note.Tags)), logging.Bool("llm", useLLM))...)

	outcome := Outcome{Note: note, LLMTags: llmTags, RequestID: requestID}
	if o.recorder != nil {
		if err := o.recorder.Record(ctx, outcome); err != nil {
			logging.WarnWithContext(logger, "failed to record submission", "history_record_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "note submitted but missing from local history"),
			)
		}
	}

	return outcome, nil
}

func (o *Orchestrator) create(ctx context.Context, note Note) error {
	value, err := o.client.Send(ctx, http.MethodPost, api.PathNotes, note, true)
	if err != nil {
		return err
	}
	if !value.Present() {
		return services.Wrap(services.ErrMalformedResponse, "notes", "create note", "response is not json", nil)
	}
	if !value.Success() {
		return services.Wrap(services.ErrApplication, "notes", "create note", rejectionMessage(value), nil)
	}
	return nil
}

func rejectionMessage(value api.Value) string {
	for _, key := range []string{"error", "message"} {
		if msg, ok := value.Field(key).AsString(); ok && msg != "" {
			return fmt.Sprintf("service rejected note: %s", msg)
		}
	}
	return "service rejected note"
}

func (o *Orchestrator) notify(state State) {
	if o.observer != nil {
		o.observer(state)
	}
}
