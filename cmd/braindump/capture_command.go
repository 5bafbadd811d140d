package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"braindump/internal/capability"
	"braindump/internal/notes"
)

const tagsDirective = "/tags"

var errCaptureInterrupted = errors.New("capture interrupted")

func newCaptureCommand(ctx *commandContext) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Submit one note per input line until EOF",
		Long: "Reads notes from stdin, one per line, and submits each as it is entered.\n" +
			"A line of the form `/tags a, b` replaces the manual tags for the following notes.",
		Args: cobra.NoArgs,
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
			caps, err := ctx.resolveCapabilities(cmd, client, draft.UseLLM)
			if err != nil {
				return err
			}
			warnNoProvider(cmd.ErrOrStderr(), draft, caps)

			orch, err := ctx.newOrchestrator(client, stateLogger(logger))
			if err != nil {
				return err
			}
			return runCapture(cmd, orch, draft, caps)
		},
	}

	flags.register(cmd, true)
	return cmd
}

func runCapture(cmd *cobra.Command, orch *notes.Orchestrator, draft *notes.Draft, caps capability.Capabilities) error {
	prompt := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	failures := 0
	for {
		if err := cmd.Context().Err(); err != nil {
			return errCaptureInterrupted
		}
		line, err := prompt.line(capturePrompt(draft))
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), tagsDirective); ok && (rest == "" || rest[0] == ' ') {
			draft.Tags = strings.TrimSpace(rest)
			continue
		}

		draft.Text = line
		if err := submitDraft(cmd, orch, draft, caps); err != nil {
			failures++
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d note(s) failed to submit", failures)
	}
	return nil
}

func capturePrompt(draft *notes.Draft) string {
	if strings.TrimSpace(draft.Tags) == "" {
		return "> "
	}
	return fmt.Sprintf("[%s] > ", draft.Tags)
}
