package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"castpipe/internal/content"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List content records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			var records []*content.Record
			switch {
			case pendingOnly:
				records, err = store.ListPending(cmd.Context())
			case statusFilter != "":
				status, ok := content.ParseStatus(statusFilter)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFilter)
				}
				records, err = store.ListByStatus(cmd.Context(), status)
			default:
				records, err = store.ListByStatus(cmd.Context(), content.AllStatuses()...)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No content found")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.ID,
					string(rec.Category),
					string(rec.Status),
					string(rec.ReviewDecision),
					rec.Title,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Category", "Status", "Review", "Title"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Only show content at this status")
	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Only show content the pipeline would pick up")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show content counts per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(stats))
			total := 0
			for _, status := range content.AllStatuses() {
				count, ok := stats[status]
				if !ok {
					continue
				}
				total += count
				rows = append(rows, []string{string(status), strconv.Itoa(count)})
			}
			rows = append(rows, []string{"total", strconv.Itoa(total)})

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Status", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}
