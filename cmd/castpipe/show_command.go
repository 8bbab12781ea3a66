package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <content-id>",
		Short: "Show every language row for a content id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			records, err := store.ListByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintf(out, "No content found for %s\n", args[0])
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				role := "target"
				if rec.IsSource() {
					role = "source"
				}
				rows = append(rows, []string{
					string(rec.Language),
					role,
					string(rec.Status),
					rec.AudioFilePath,
					rec.Streaming.Remote,
					rec.ContentURL,
				})
			}
			fmt.Fprintf(out, "%s (%s)\n", records[0].ID, records[0].Category)
			fmt.Fprintln(out, renderTable(
				[]string{"Language", "Role", "Status", "Audio", "Streaming", "Content URL"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
