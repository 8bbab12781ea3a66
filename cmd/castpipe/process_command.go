package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"castpipe/internal/pipeline"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var fromStatus string
	var all bool

	cmd := &cobra.Command{
		Use:   "process [content-id]",
		Short: "Run the pipeline for one content id or everything pending",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("provide a content id or --all, not both")
			}
			if all && fromStatus != "" {
				return errors.New("--from cannot be combined with --all")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// One pipeline run at a time; concurrent runs would race on
			// source-row status updates.
			lock := flock.New(filepath.Join(cfg.Paths.LogDir, "castpipe.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire pipeline lock: %w", err)
			}
			if !locked {
				return errors.New("another castpipe run is already in progress")
			}
			defer lock.Unlock()

			orch, err := ctx.buildOrchestrator()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if all {
				summaries, err := orch.ProcessAllPending(cmd.Context())
				for _, summary := range summaries {
					printRunSummary(out, summary)
				}
				if err != nil {
					return err
				}
				if len(summaries) == 0 {
					fmt.Fprintln(out, "Nothing pending")
				}
				return nil
			}

			summary, err := orch.ProcessContent(cmd.Context(), args[0], fromStatus)
			if err != nil {
				return err
			}
			printRunSummary(out, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStatus, "from", "", "Start from this status instead of the stored one")
	cmd.Flags().BoolVar(&all, "all", false, "Process every pending content id")
	return cmd
}

func printRunSummary(out io.Writer, summary *pipeline.RunSummary) {
	fmt.Fprintf(out, "\n%s  %s -> %s (run %s)\n",
		summary.ContentID, summary.StartStatus, summary.FinalStatus, summary.RunID)
	if len(summary.Steps) == 0 {
		fmt.Fprintln(out, "  no stage to run")
		return
	}

	rows := make([][]string, 0, len(summary.Steps))
	for _, step := range summary.Steps {
		for _, lang := range step.Results.Languages() {
			res := step.Results[lang]
			outcome := "ok"
			detail := res.Artifact
			if !res.Success {
				outcome = "failed"
				detail = res.Err
			}
			rows = append(rows, []string{string(step.Stage), string(lang), colorizeOutcome(out, outcome), detail})
		}
		if len(step.Results) == 0 {
			rows = append(rows, []string{string(step.Stage), "-", "failed", step.Description})
		}
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Stage", "Language", "Outcome", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	))
}
