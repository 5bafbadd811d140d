package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCapabilitiesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "capabilities",
		Aliases: []string{"caps"},
		Short:   "Show which LLM providers the account can use",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.requireSession()
			if err != nil {
				return err
			}
			caps, err := ctx.resolveCapabilities(cmd, client, true)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, caps)
			}

			model := caps.TaggingModel
			if model == "" {
				model = "-"
			}
			rows := [][]string{
				{"Anthropic", yesNo(caps.Anthropic)},
				{"OpenAI", yesNo(caps.OpenAI)},
				{"Tagging model", model},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Capability", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
