package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"braindump/internal/capability"
	"braindump/internal/config"
	"braindump/internal/logging"
	"braindump/internal/notes"
	"braindump/internal/tags"
)

type draftFlags struct {
	tags     string
	useLLM   bool
	keepTags bool
}

func (f *draftFlags) register(cmd *cobra.Command, withKeepTags bool) {
	cmd.Flags().StringVarP(&f.tags, "tags", "t", "", "Comma-separated manual tags (defaults to capture.default_tags)")
	cmd.Flags().BoolVar(&f.useLLM, "llm", false, "Ask the account's LLM provider for extra tags (defaults to capture.use_llm)")
	if withKeepTags {
		cmd.Flags().BoolVar(&f.keepTags, "keep-tags", false, "Keep manual tags between notes (defaults to capture.keep_tags)")
	}
}

// draft builds the initial draft, letting explicit flags override config.
func (f *draftFlags) draft(cmd *cobra.Command, cfg *config.Config) *notes.Draft {
	draft := &notes.Draft{
		Tags:     cfg.Capture.DefaultTags,
		UseLLM:   cfg.Capture.UseLLM,
		KeepTags: cfg.Capture.KeepTags,
	}
	if cmd.Flags().Changed("tags") {
		draft.Tags = f.tags
	}
	if cmd.Flags().Changed("llm") {
		draft.UseLLM = f.useLLM
	}
	if cmd.Flags().Changed("keep-tags") {
		draft.KeepTags = f.keepTags
	}
	return draft
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Submit a single note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			client, _, err := ctx.requireSession()
			if err != nil {
				return err
			}

			draft := flags.draft(cmd, cfg)
			draft.Text = strings.Join(args, " ")

			caps, err := ctx.resolveCapabilities(cmd, client, draft.UseLLM)
			if err != nil {
				return err
			}
			warnNoProvider(cmd.ErrOrStderr(), draft, caps)

			orch, err := ctx.newOrchestrator(client, stateLogger(logger))
			if err != nil {
				return err
			}
			return submitDraft(cmd, orch, draft, caps)
		},
	}

	flags.register(cmd, false)
	return cmd
}

func submitDraft(cmd *cobra.Command, orch *notes.Orchestrator, draft *notes.Draft, caps capability.Capabilities) error {
	outcome, err := orch.Submit(cmd.Context(), draft, caps)
	if err != nil {
		return fmt.Errorf("submit note: %w", err)
	}
	out := cmd.OutOrStdout()
	if outcome.Skipped {
		fmt.Fprintln(out, "Nothing to submit")
		return nil
	}
	if len(outcome.Note.Tags) == 0 {
		fmt.Fprintln(out, "Note submitted")
		return nil
	}
	fmt.Fprintf(out, "Note submitted [%s]\n", tags.Join(outcome.Note.Tags))
	return nil
}

func warnNoProvider(w io.Writer, draft *notes.Draft, caps capability.Capabilities) {
	if draft.UseLLM && !caps.Any() {
		fmt.Fprintln(w, "No LLM provider configured for this account; submitting without auto-tags")
	}
}

func stateLogger(logger *slog.Logger) notes.Observer {
	return func(state notes.State) {
		logger.Debug("submission state", logging.Args(logging.String("state", state.String()))...)
	}
}
