package hls

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"castpipe/internal/command"
	"castpipe/internal/config"
	"castpipe/internal/content"
	"castpipe/internal/language"
	"castpipe/internal/logging"
	"castpipe/internal/services"
	"castpipe/internal/stage"
)

// Stage converts generated waveforms into HLS output directories.
type Stage struct {
	cfg    *config.Config
	store  *content.Store
	runner command.Runner
	logger *slog.Logger
}

// NewStage constructs the streaming conversion stage.
func NewStage(cfg *config.Config, store *content.Store, runner command.Runner, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:    cfg,
		store:  store,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "streaming"),
	}
}

// Convert segments every language row with a generated waveform. A content
// id with no audio-bearing rows is a setup error reported once, not
// per-language.
func (s *Stage) Convert(ctx context.Context, contentID string) (stage.ResultMap, error) {
	eligible := make([]*content.Record, 0, len(language.All()))
	for _, lang := range language.All() {
		rec, err := s.store.Get(ctx, contentID, lang)
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "streaming", "load rows", contentID, err)
		}
		if rec != nil && rec.AudioFilePath != "" {
			eligible = append(eligible, rec)
		}
	}
	if len(eligible) == 0 {
		return nil, services.Wrap(services.ErrValidation, "streaming", "select input",
			fmt.Sprintf("no languages with generated audio for %s", contentID), nil)
	}

	results := make(stage.ResultMap, len(eligible))
	var mu sync.Mutex

	var group errgroup.Group
	group.SetLimit(s.cfg.Pipeline.StageConcurrency)
	for _, rec := range eligible {
		rec := rec
		group.Go(func() error {
			res := s.convertLanguage(ctx, rec)
			mu.Lock()
			results[rec.Language] = res
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	s.logger.Info("streaming conversion finished",
		logging.String(logging.FieldContentID, contentID),
		logging.Int("languages", len(results)),
		logging.Int("succeeded", results.Successes()),
	)
	return results, nil
}

func (s *Stage) convertLanguage(ctx context.Context, rec *content.Record) stage.Result {
	if _, err := os.Stat(rec.AudioFilePath); err != nil {
		return stage.Failf("source waveform missing: %v", err)
	}

	outDir := content.StreamingDirFor(s.cfg.Paths.AudioDir, rec.Language, rec.Category, rec.ID)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return stage.Failf("create output directory: %v", err)
	}

	playlist := filepath.Join(outDir, PlaylistName)
	args := []string{
		"-y",
		"-i", rec.AudioFilePath,
		"-vn",
		"-codec:a", "aac",
		"-b:a", "128k",
		"-hls_time", strconv.Itoa(s.cfg.Streaming.SegmentSeconds),
		"-hls_playlist_type", "vod",
		"-hls_segment_filename", filepath.Join(outDir, "segment_%03d"+SegmentExt),
		playlist,
	}

	runCtx := ctx
	if s.cfg.Streaming.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.Streaming.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	res := s.runner.Run(runCtx, s.cfg.Streaming.FFmpegBinary, args)
	if !res.Success {
		return stage.Failf("ffmpeg: %s", res.FailureDetail())
	}

	segments, err := listSegments(outDir)
	if err != nil {
		return stage.Failf("inspect output: %v", err)
	}
	if len(segments) == 0 {
		return stage.Fail("ffmpeg produced no segments")
	}
	if _, err := os.Stat(playlist); err != nil {
		return stage.Failf("playlist missing: %v", err)
	}

	rec.Streaming.M3U8 = playlist
	if !rec.IsSource() {
		rec.Status = content.StatusM3U8
	}
	// A successful transcode whose status update fails must still surface
	// as a failure; forward progress depends on status reflecting reality.
	if err := s.store.Update(ctx, rec); err != nil {
		return stage.Failf("Database update failed: %v", err)
	}

	s.logger.Debug("streaming output ready",
		logging.String(logging.FieldContentID, rec.ID),
		logging.String(logging.FieldLanguage, string(rec.Language)),
		logging.Int("segments", len(segments)),
	)
	return stage.OK(fmt.Sprintf("%s (%d segments)", playlist, len(segments)))
}

// listSegments returns the directory's segment filenames in playback order.
func listSegments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == SegmentExt {
			names = append(names, entry.Name())
		}
	}
	return SortSegments(names), nil
}
