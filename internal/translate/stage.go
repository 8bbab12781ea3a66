package translate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"castpipe/internal/config"
	"castpipe/internal/content"
	"castpipe/internal/language"
	"castpipe/internal/logging"
	"castpipe/internal/services"
	"castpipe/internal/stage"
)

// Stage dispatches translation jobs for every target language of a content id.
type Stage struct {
	cfg        *config.Config
	store      *content.Store
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewStage constructs the translation trigger stage.
func NewStage(cfg *config.Config, store *content.Store, dispatcher Dispatcher, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:        cfg,
		store:      store,
		dispatcher: dispatcher,
		logger:     logging.NewComponentLogger(logger, "translate"),
	}
}

// Trigger dispatches one translation job per target language. Target rows
// that already hold a translated body are reported as successes without a
// fresh dispatch, so re-running the stage is safe.
func (s *Stage) Trigger(ctx context.Context, contentID string) (stage.ResultMap, error) {
	src, err := s.store.GetSource(ctx, contentID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "translate", "load source row", contentID, err)
	}
	if src == nil {
		return nil, services.Wrap(services.ErrNotFound, "translate", "load source row",
			fmt.Sprintf("no source content for %s", contentID), nil)
	}
	if !src.Status.AtLeast(content.StatusReviewed) {
		return nil, services.Wrap(services.ErrValidation, "translate", "prepare",
			fmt.Sprintf("content %s has status %s; translation requires reviewed", contentID, src.Status), nil)
	}

	results := make(stage.ResultMap, len(language.Targets()))
	var mu sync.Mutex

	var group errgroup.Group
	group.SetLimit(s.cfg.Pipeline.StageConcurrency)
	for _, lang := range language.Targets() {
		lang := lang
		group.Go(func() error {
			res := s.triggerForLanguage(ctx, src, lang)
			mu.Lock()
			results[lang] = res
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	s.logger.Info("translation dispatch finished",
		logging.String(logging.FieldContentID, contentID),
		logging.Int("languages", len(results)),
		logging.Int("succeeded", results.Successes()),
	)
	return results, nil
}

func (s *Stage) triggerForLanguage(ctx context.Context, src *content.Record, lang language.Code) stage.Result {
	rec, err := s.store.Get(ctx, src.ID, lang)
	if err != nil {
		return stage.Failf("load %s row: %v", lang, err)
	}
	if rec != nil && rec.Body != "" && rec.Status.AtLeast(content.StatusTranslated) {
		return stage.OK("already translated")
	}

	req := DispatchRequest{
		ContentID:      src.ID,
		Category:       string(src.Category),
		SourceLanguage: src.Language,
		TargetLanguage: lang,
	}
	if err := s.dispatcher.Dispatch(ctx, req); err != nil {
		return stage.Failf("dispatch translation: %v", err)
	}

	s.logger.Debug("translation dispatched",
		logging.String(logging.FieldContentID, src.ID),
		logging.String(logging.FieldLanguage, string(lang)),
		logging.String(logging.FieldEventType, "translate-content"),
	)
	return stage.OK("dispatched")
}
