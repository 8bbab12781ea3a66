package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"castpipe/internal/command"
	"castpipe/internal/config"
	"castpipe/internal/content"
	"castpipe/internal/hls"
	"castpipe/internal/language"
	"castpipe/internal/logging"
	"castpipe/internal/services"
	"castpipe/internal/stage"
)

// Stage pushes streaming artifacts and content snapshots to object storage.
type Stage struct {
	cfg    *config.Config
	store  *content.Store
	runner command.Runner
	logger *slog.Logger
}

// NewStage constructs the upload stage.
func NewStage(cfg *config.Config, store *content.Store, runner command.Runner, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:    cfg,
		store:  store,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "upload"),
	}
}

// Audio syncs every language's HLS directory to remote storage and persists
// the public playback URL. Rows without streaming output are not eligible;
// a content id with no eligible rows is a setup error reported once.
func (s *Stage) Audio(ctx context.Context, contentID string) (stage.ResultMap, error) {
	eligible, err := s.eligibleRows(ctx, contentID, func(rec *content.Record) bool {
		return rec.Streaming.M3U8 != ""
	})
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, services.Wrap(services.ErrValidation, "upload", "select input",
			fmt.Sprintf("no languages with streaming output for %s", contentID), nil)
	}

	results := make(stage.ResultMap, len(eligible))
	var mu sync.Mutex

	var group errgroup.Group
	group.SetLimit(s.cfg.Pipeline.StageConcurrency)
	for _, rec := range eligible {
		rec := rec
		group.Go(func() error {
			res := s.uploadAudioForLanguage(ctx, rec)
			mu.Lock()
			results[rec.Language] = res
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	s.logger.Info("audio upload finished",
		logging.String(logging.FieldContentID, contentID),
		logging.Int("languages", len(results)),
		logging.Int("succeeded", results.Successes()),
	)
	return results, nil
}

func (s *Stage) uploadAudioForLanguage(ctx context.Context, rec *content.Record) stage.Result {
	dir := content.StreamingDirFor(s.cfg.Paths.AudioDir, rec.Language, rec.Category, rec.ID)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return stage.Failf("Source directory not found: %s", dir)
	}

	files, err := uploadableFiles(dir)
	if err != nil {
		return stage.Failf("inspect source directory: %v", err)
	}
	if len(files) == 0 {
		return stage.Failf("No uploadable files in %s", dir)
	}

	prefix := content.RemotePrefixFor(rec.Language, rec.Category, rec.ID)
	dest := s.cfg.Upload.Remote + "/" + prefix
	res := s.run(ctx, "sync", dir, dest)
	if !res.Success {
		return stage.Failf("rclone: %s", res.FailureDetail())
	}

	rec.Streaming.Remote = content.PublicURLFor(s.cfg.Upload.PublicBaseURL, prefix+"/"+hls.PlaylistName)
	if !rec.IsSource() {
		rec.Status = content.StatusRemoteUpload
	}
	if err := s.store.Update(ctx, rec); err != nil {
		return stage.Failf("Database update failed: %v", err)
	}

	s.logger.Debug("streaming artifacts uploaded",
		logging.String(logging.FieldContentID, rec.ID),
		logging.String(logging.FieldLanguage, string(rec.Language)),
		logging.Int("files", len(files)),
	)
	return stage.OK(fmt.Sprintf("%s (%d files)", rec.Streaming.Remote, len(files)))
}

// Snapshot serializes every eligible language row to JSON and copies it to
// the content path on remote storage. The transient local file is removed on
// every exit path.
func (s *Stage) Snapshot(ctx context.Context, contentID string) (stage.ResultMap, error) {
	eligible, err := s.eligibleRows(ctx, contentID, func(rec *content.Record) bool {
		return rec.Streaming.Remote != ""
	})
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, services.Wrap(services.ErrValidation, "upload", "select input",
			fmt.Sprintf("no languages with uploaded streaming artifacts for %s", contentID), nil)
	}

	results := make(stage.ResultMap, len(eligible))
	var mu sync.Mutex

	var group errgroup.Group
	group.SetLimit(s.cfg.Pipeline.StageConcurrency)
	for _, rec := range eligible {
		rec := rec
		group.Go(func() error {
			res := s.uploadSnapshotForLanguage(ctx, rec)
			mu.Lock()
			results[rec.Language] = res
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	s.logger.Info("snapshot upload finished",
		logging.String(logging.FieldContentID, contentID),
		logging.Int("languages", len(results)),
		logging.Int("succeeded", results.Successes()),
	)
	return results, nil
}

func (s *Stage) uploadSnapshotForLanguage(ctx context.Context, rec *content.Record) stage.Result {
	tmp, err := os.CreateTemp("", rec.ID+"-"+string(rec.Language)+"-*.json")
	if err != nil {
		return stage.Failf("create snapshot file: %v", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	payload, err := json.MarshalIndent(content.NewSnapshot(rec), "", "  ")
	if err != nil {
		tmp.Close()
		return stage.Failf("encode snapshot: %v", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return stage.Failf("write snapshot: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return stage.Failf("write snapshot: %v", err)
	}

	prefix := content.RemotePrefixFor(rec.Language, rec.Category, rec.ID)

	// Cross-reference the already-uploaded segments; a listing failure is
	// diagnostic only and must not fail the snapshot.
	segments := 0
	if listing := s.run(ctx, "ls", s.cfg.Upload.Remote+"/"+prefix); listing.Success {
		segments = len(hls.ParseListing(listing.Output, hls.SegmentExt))
	}

	key := prefix + ".json"
	res := s.run(ctx, "copyto", tmpPath, s.cfg.Upload.Remote+"/"+key)
	if !res.Success {
		return stage.Failf("rclone: %s", res.FailureDetail())
	}

	rec.ContentURL = content.PublicURLFor(s.cfg.Upload.PublicBaseURL, key)
	if !rec.IsSource() {
		rec.Status = content.StatusContentUpload
	}
	if err := s.store.Update(ctx, rec); err != nil {
		return stage.Failf("Database update failed: %v", err)
	}

	s.logger.Debug("snapshot uploaded",
		logging.String(logging.FieldContentID, rec.ID),
		logging.String(logging.FieldLanguage, string(rec.Language)),
		logging.Int("remote_segments", segments),
	)
	return stage.OK(rec.ContentURL)
}

func (s *Stage) eligibleRows(ctx context.Context, contentID string, keep func(*content.Record) bool) ([]*content.Record, error) {
	eligible := make([]*content.Record, 0, len(language.All()))
	for _, lang := range language.All() {
		rec, err := s.store.Get(ctx, contentID, lang)
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "upload", "load rows", contentID, err)
		}
		if rec != nil && keep(rec) {
			eligible = append(eligible, rec)
		}
	}
	return eligible, nil
}

func (s *Stage) run(ctx context.Context, args ...string) command.Result {
	runCtx := ctx
	if s.cfg.Upload.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.Upload.TimeoutSeconds)*time.Second)
		defer cancel()
	}
	return s.runner.Run(runCtx, s.cfg.Upload.RcloneBinary, args)
}

// uploadableFiles returns the playlist and segment files in a streaming
// directory.
func uploadableFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == hls.PlaylistName || filepath.Ext(name) == hls.SegmentExt {
			names = append(names, name)
		}
	}
	return names, nil
}
