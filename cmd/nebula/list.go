package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/entrhq/nebula/pkg/export"
)

func newListCmd(a *app) *cobra.Command {
	var (
		limit    int
		jsonOut  bool
		fullText bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(true); err != nil {
				return err
			}

			notes, timeline, err := a.openNotes(cmd.Context())
			if err != nil {
				return err
			}
			defer notes.Close()

			list := timeline.Notes()
			if limit > 0 {
				list = timeline.Recent(limit)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return export.Write(out, list, export.FormatJSON)
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No history yet.")
				return nil
			}
			for _, n := range list {
				content := strings.TrimSpace(n.Content)
				if !fullText {
					content = firstLine(content)
				}
				fmt.Fprintf(out, "%s  %s\n", n.Time().Local().Format("2006-01-02 15:04"), content)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n notes (0 = all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&fullText, "full", false, "Print whole notes instead of their first line")
	return cmd
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
