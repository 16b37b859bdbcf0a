package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/nebula/pkg/config"
)

func newIdeasCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Suggest what to write about next, from your recent notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(true); err != nil {
				return err
			}
			ctx := cmd.Context()

			// Unlike the TUI, a one-shot request is pointless without the AI.
			provider, err := a.buildProvider(ctx, a.llm)
			if err != nil {
				return err
			}

			notes, timeline, err := a.openNotes(ctx)
			if err != nil {
				return err
			}
			defer notes.Close()

			out := cmd.OutOrStdout()
			if timeline.Len() == 0 {
				fmt.Fprintln(out, "Capture a few notes and ideas will appear here.")
				return nil
			}

			settings := config.Insights()
			suggestions := a.newInsightClient(provider, settings).
				Generate(ctx, timeline.Recent(settings.ManualLimit))

			if jsonOut {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(suggestions)
			}
			if len(suggestions) == 0 {
				fmt.Fprintln(out, "No ideas this time. Try again in a moment.")
				return nil
			}
			for _, s := range suggestions {
				fmt.Fprintf(out, "[%s] %s\n", s.Type, s.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	return cmd
}
