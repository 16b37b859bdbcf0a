package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/entrhq/nebula/pkg/capture"
	"github.com/entrhq/nebula/pkg/memo"
	"github.com/entrhq/nebula/pkg/speech"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add [text...]",
		Short: "Save a note",
		Long:  "Save a note from the arguments, or from standard input when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(true); err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read note from stdin: %w", err)
				}
				text = strings.TrimRight(string(data), "\n")
			}
			if memo.IsBlank(text) {
				return fmt.Errorf("note is empty")
			}

			ctx := cmd.Context()
			notes, timeline, err := a.openNotes(ctx)
			if err != nil {
				return err
			}
			defer notes.Close()

			// Same commit path as the capture card, without the save window.
			machine := capture.New(timeline, speech.NewUnavailable(), capture.WithLogger(a.newLogger("capture")))
			machine.SetInput(text)
			note, ok := machine.Save()
			if !ok {
				return fmt.Errorf("note is empty")
			}

			if err := notes.Save(ctx, timeline.Notes()); err != nil {
				return fmt.Errorf("failed to save note: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", note.ID, memoCount(timeline.Len()))
			return nil
		},
	}
}

func memoCount(n int) string {
	if n == 1 {
		return "1 memo"
	}
	return fmt.Sprintf("%d memos", n)
}
