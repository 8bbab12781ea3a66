package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"castpipe/internal/content"
	"castpipe/internal/logging"
	"castpipe/internal/services"
	"castpipe/internal/stage"
)

// StageService runs one pipeline stage for a content id and reports
// per-language outcomes. Setup and precondition failures come back as the
// error; per-language failures live inside the map.
type StageService func(ctx context.Context, contentID string) (stage.ResultMap, error)

// Step records one stage attempt within a run.
type Step struct {
	From        content.Status
	To          content.Status
	Stage       content.StageKind
	Description string
	Success     bool
	Results     stage.ResultMap
}

// RunSummary is the outcome of one ProcessContent invocation.
type RunSummary struct {
	RunID       string
	ContentID   string
	StartStatus content.Status
	FinalStatus content.Status
	Steps       []Step
}

// Orchestrator walks content through the status table.
type Orchestrator struct {
	store  *content.Store
	stages map[content.StageKind]StageService
	logger *slog.Logger
}

// NewOrchestrator wires the orchestrator to its stage services. A status
// table gap or an unregistered stage is a configuration error surfaced here,
// not deep inside a run.
func NewOrchestrator(store *content.Store, stages map[content.StageKind]StageService, logger *slog.Logger) (*Orchestrator, error) {
	if err := content.ValidateStageTable(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "validate", "stage table", err)
	}
	for _, status := range content.AllStatuses() {
		kind, ok := content.StageForStatus(status)
		if !ok {
			continue
		}
		if _, registered := stages[kind]; !registered {
			return nil, services.Wrap(services.ErrConfiguration, "pipeline", "validate",
				fmt.Sprintf("no service registered for stage %s", kind), nil)
		}
	}
	return &Orchestrator{
		store:  store,
		stages: stages,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// ProcessContent walks the content id forward from its current status, or
// from startStatus when non-empty. The walk halts at the terminal status, at
// a stage with zero successful languages, or at a setup failure; the summary
// records every step either way. Only unknown content or an invalid override
// is an error.
func (o *Orchestrator) ProcessContent(ctx context.Context, contentID, startStatus string) (*RunSummary, error) {
	src, err := o.store.GetSource(ctx, contentID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "load source row", contentID, err)
	}
	if src == nil {
		return nil, services.Wrap(services.ErrNotFound, "pipeline", "load source row",
			fmt.Sprintf("no source content for %s", contentID), nil)
	}

	current := src.Status
	if startStatus != "" {
		parsed, ok := content.ParseStatus(startStatus)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "pipeline", "parse start status",
				fmt.Sprintf("unknown status %q", startStatus), nil)
		}
		current = parsed
	}

	summary := &RunSummary{
		RunID:       uuid.NewString(),
		ContentID:   contentID,
		StartStatus: current,
		FinalStatus: current,
	}
	o.logger.Info("pipeline run started",
		logging.String(logging.FieldRunID, summary.RunID),
		logging.String(logging.FieldContentID, contentID),
		logging.String(logging.FieldStatus, string(current)),
	)

	for {
		kind, ok := content.StageForStatus(current)
		if !ok {
			break
		}
		next, ok := content.NextStatus(current)
		if !ok {
			break
		}

		step := Step{
			From:        current,
			To:          next,
			Stage:       kind,
			Description: fmt.Sprintf("%s: %s -> %s", kind, current, next),
		}

		results, err := o.stages[kind](ctx, contentID)
		if err != nil {
			// Setup failures halt the run but never crash it; the
			// summary is the user-visible record.
			step.Description = fmt.Sprintf("%s: %v", kind, err)
			summary.Steps = append(summary.Steps, step)
			o.logger.Error("stage setup failed",
				logging.String(logging.FieldRunID, summary.RunID),
				logging.String(logging.FieldContentID, contentID),
				logging.String(logging.FieldStage, string(kind)),
				logging.Error(err),
			)
			break
		}

		step.Results = results
		step.Success = results.AnySuccess()
		summary.Steps = append(summary.Steps, step)

		if !step.Success {
			o.logger.Warn("stage failed for every language",
				logging.String(logging.FieldRunID, summary.RunID),
				logging.String(logging.FieldContentID, contentID),
				logging.String(logging.FieldStage, string(kind)),
			)
			break
		}

		if err := o.advance(ctx, contentID, next); err != nil {
			last := &summary.Steps[len(summary.Steps)-1]
			last.Success = false
			last.Description = fmt.Sprintf("%s: status update failed: %v", kind, err)
			break
		}
		current = next
		summary.FinalStatus = current
	}

	o.logger.Info("pipeline run finished",
		logging.String(logging.FieldRunID, summary.RunID),
		logging.String(logging.FieldContentID, contentID),
		logging.String(logging.FieldStatus, string(summary.FinalStatus)),
		logging.Int("steps", len(summary.Steps)),
	)
	return summary, nil
}

// advance persists the source row's new status. The row is re-fetched so a
// stage's own writes to the source row are not clobbered.
func (o *Orchestrator) advance(ctx context.Context, contentID string, next content.Status) error {
	src, err := o.store.GetSource(ctx, contentID)
	if err != nil {
		return err
	}
	if src == nil {
		return fmt.Errorf("source row for %s disappeared mid-run", contentID)
	}
	src.Status = next
	return o.store.Update(ctx, src)
}

// GetAllPendingContent lists source rows that are mid-pipeline, plus drafts
// whose review decision is an explicit accept.
func (o *Orchestrator) GetAllPendingContent(ctx context.Context) ([]*content.Record, error) {
	return o.store.ListPending(ctx)
}

// ProcessAllPending runs the pipeline for every pending content id in order.
func (o *Orchestrator) ProcessAllPending(ctx context.Context) ([]*RunSummary, error) {
	pending, err := o.GetAllPendingContent(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]*RunSummary, 0, len(pending))
	for _, rec := range pending {
		summary, err := o.ProcessContent(ctx, rec.ID, "")
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
