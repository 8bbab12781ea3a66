package publish

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

// Stage marks a content id's language rows as published.
type Stage struct {
	cfg    *config.Config
	store  *content.Store
	logger *slog.Logger
}

// NewStage constructs the publication stage.
func NewStage(cfg *config.Config, store *content.Store, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "publish"),
	}
}

// Finalize verifies each language's remote artifacts and flips that
// language's row to published. A language without an uploaded snapshot or
// streaming playlist fails verification and stays where it is.
func (s *Stage) Finalize(ctx context.Context, contentID string) (stage.ResultMap, error) {
	src, err := s.store.GetSource(ctx, contentID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "publish", "load source row", contentID, err)
	}
	if src == nil {
		return nil, services.Wrap(services.ErrNotFound, "publish", "load source row",
			fmt.Sprintf("no source content for %s", contentID), nil)
	}
	if !src.Status.AtLeast(content.StatusContentUpload) {
		return nil, services.Wrap(services.ErrValidation, "publish", "prepare",
			fmt.Sprintf("content %s has status %s; publication requires content-upload", contentID, src.Status), nil)
	}

	results := make(stage.ResultMap, len(language.All()))
	var mu sync.Mutex

	var group errgroup.Group
	group.SetLimit(s.cfg.Pipeline.StageConcurrency)
	for _, lang := range language.All() {
		lang := lang
		group.Go(func() error {
			res := s.finalizeLanguage(ctx, contentID, lang)
			mu.Lock()
			results[lang] = res
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	s.logger.Info("publication finished",
		logging.String(logging.FieldContentID, contentID),
		logging.Int("languages", len(results)),
		logging.Int("succeeded", results.Successes()),
	)
	return results, nil
}

func (s *Stage) finalizeLanguage(ctx context.Context, contentID string, lang language.Code) stage.Result {
	rec, err := s.store.Get(ctx, contentID, lang)
	if err != nil {
		return stage.Failf("load %s row: %v", lang, err)
	}
	if rec == nil {
		return stage.Failf("No %s content found", lang.Display())
	}
	if rec.Status == content.StatusPublished {
		return stage.OK("already published")
	}
	if rec.Streaming.Remote == "" {
		return stage.Fail("streaming artifacts were never uploaded")
	}
	if rec.ContentURL == "" {
		return stage.Fail("content snapshot was never uploaded")
	}

	if !rec.IsSource() {
		rec.Status = content.StatusPublished
		if err := s.store.Update(ctx, rec); err != nil {
			return stage.Failf("Database update failed: %v", err)
		}
	}

	s.logger.Debug("language published",
		logging.String(logging.FieldContentID, contentID),
		logging.String(logging.FieldLanguage, string(lang)),
	)
	return stage.OK(rec.ContentURL)
}
