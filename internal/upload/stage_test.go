package upload_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"castpipe/internal/command"
	"castpipe/internal/config"
	"castpipe/internal/content"
	"castpipe/internal/hls"
	"castpipe/internal/language"
	"castpipe/internal/logging"
	"castpipe/internal/services"
	"castpipe/internal/testsupport"
	"castpipe/internal/upload"
)

type call struct {
	name string
	args []string
}

// fakeRclone records invocations and answers sync/copyto/ls like the real
// tool would.
type fakeRclone struct {
	mu       sync.Mutex
	calls    []call
	failSync map[language.Code]bool
	failCopy bool
	listing  string
}

func (f *fakeRclone) Run(_ context.Context, name string, args []string) command.Result {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: append([]string(nil), args...)})
	f.mu.Unlock()

	switch args[0] {
	case "sync":
		for lang, fail := range f.failSync {
			if fail && strings.Contains(args[2], "/"+string(lang)+"/") {
				return command.Result{Error: "Failed to sync: connection reset", ExitCode: 1}
			}
		}
		return command.Result{Success: true}
	case "ls":
		return command.Result{Success: true, Output: f.listing}
	case "copyto":
		if f.failCopy {
			return command.Result{Error: "Failed to copy: permission denied", ExitCode: 1}
		}
		return command.Result{Success: true}
	}
	return command.Result{Error: "unknown subcommand", ExitCode: 2}
}

func (f *fakeRclone) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func seedStreamingOutput(t *testing.T, cfg *config.Config, store *content.Store, id string) {
	t.Helper()
	ctx := context.Background()
	testsupport.SeedContent(t, store, id, content.StatusM3U8, "Body.")
	for _, lang := range language.All() {
		rec, err := store.Get(ctx, id, lang)
		if err != nil {
			t.Fatalf("store.Get: %v", err)
		}
		dir := content.StreamingDirFor(cfg.Paths.AudioDir, lang, rec.Category, id)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		for _, name := range []string{hls.PlaylistName, "segment_000.ts", "segment_001.ts"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
				t.Fatalf("write %s: %v", name, err)
			}
		}
		rec.Streaming.M3U8 = filepath.Join(dir, hls.PlaylistName)
		if err := store.Update(ctx, rec); err != nil {
			t.Fatalf("seed update: %v", err)
		}
	}
}

func TestAudioRequiresStreamingOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedContent(t, store, "no-streams", content.StatusWAV, "Body.")

	stg := upload.NewStage(cfg, store, &fakeRclone{}, logging.NewNop())
	_, err := stg.Audio(context.Background(), "no-streams")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected aggregate eligibility error, got %v", err)
	}
}

func TestAudioSyncsAndRecordsPublicURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seedStreamingOutput(t, cfg, store, "sync-ok")

	rclone := &fakeRclone{}
	stg := upload.NewStage(cfg, store, rclone, logging.NewNop())
	results, err := stg.Audio(ctx, "sync-ok")
	if err != nil {
		t.Fatalf("Audio: %v", err)
	}
	if results.Successes() != len(language.All()) {
		t.Fatalf("expected all languages uploaded, got %d", results.Successes())
	}

	rec, _ := store.Get(ctx, "sync-ok", language.EnUS)
	want := cfg.Upload.PublicBaseURL + "/en-US/daily-news/sync-ok/" + hls.PlaylistName
	if rec.Streaming.Remote != want {
		t.Fatalf("remote URL = %q, want %q", rec.Streaming.Remote, want)
	}
	if rec.Status != content.StatusRemoteUpload {
		t.Fatalf("target status = %s, want %s", rec.Status, content.StatusRemoteUpload)
	}

	src, _ := store.GetSource(ctx, "sync-ok")
	if src.Status != content.StatusM3U8 {
		t.Fatalf("source status must stay orchestrator-owned, got %s", src.Status)
	}

	for _, c := range rclone.recorded() {
		if c.args[0] == "sync" && !strings.HasPrefix(c.args[2], cfg.Upload.Remote+"/") {
			t.Fatalf("sync destination %q not under configured remote", c.args[2])
		}
	}
}

func TestAudioReportsMissingDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedContent(t, store, "gone", content.StatusM3U8, "Body.")
	rec, _ := store.Get(ctx, "gone", language.ZhTW)
	rec.Streaming.M3U8 = filepath.Join(cfg.Paths.AudioDir, "zh-TW", "daily-news", "gone", hls.PlaylistName)
	if err := store.Update(ctx, rec); err != nil {
		t.Fatalf("seed update: %v", err)
	}

	stg := upload.NewStage(cfg, store, &fakeRclone{}, logging.NewNop())
	results, err := stg.Audio(ctx, "gone")
	if err != nil {
		t.Fatalf("Audio: %v", err)
	}
	res := results[language.ZhTW]
	if res.Success || !strings.Contains(res.Err, "Source directory not found") {
		t.Fatalf("expected missing-directory failure, got %+v", res)
	}
}

func TestAudioReportsEmptyDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedContent(t, store, "empty", content.StatusM3U8, "Body.")
	rec, _ := store.Get(ctx, "empty", language.ZhTW)
	dir := content.StreamingDirFor(cfg.Paths.AudioDir, language.ZhTW, rec.Category, "empty")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	rec.Streaming.M3U8 = filepath.Join(dir, hls.PlaylistName)
	if err := store.Update(ctx, rec); err != nil {
		t.Fatalf("seed update: %v", err)
	}

	stg := upload.NewStage(cfg, store, &fakeRclone{}, logging.NewNop())
	results, err := stg.Audio(ctx, "empty")
	if err != nil {
		t.Fatalf("Audio: %v", err)
	}
	res := results[language.ZhTW]
	if res.Success || !strings.Contains(res.Err, "No uploadable files") {
		t.Fatalf("expected empty-directory failure, got %+v", res)
	}
}

func TestAudioIsolatesSyncFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seedStreamingOutput(t, cfg, store, "mixed-sync")

	rclone := &fakeRclone{failSync: map[language.Code]bool{language.JaJP: true}}
	stg := upload.NewStage(cfg, store, rclone, logging.NewNop())
	results, err := stg.Audio(context.Background(), "mixed-sync")
	if err != nil {
		t.Fatalf("Audio: %v", err)
	}
	if results[language.JaJP].Success {
		t.Fatal("ja-JP sync should fail")
	}
	if !strings.Contains(results[language.JaJP].Err, "rclone") {
		t.Fatalf("expected prefixed command error, got %q", results[language.JaJP].Err)
	}
	if !results[language.EnUS].Success || !results[language.ZhTW].Success {
		t.Fatal("one failing language must not abort the others")
	}
}

func seedRemoteUploaded(t *testing.T, cfg *config.Config, store *content.Store, id string) {
	t.Helper()
	ctx := context.Background()
	testsupport.SeedContent(t, store, id, content.StatusRemoteUpload, "Body.")
	for _, lang := range language.All() {
		rec, err := store.Get(ctx, id, lang)
		if err != nil {
			t.Fatalf("store.Get: %v", err)
		}
		prefix := content.RemotePrefixFor(lang, rec.Category, id)
		rec.Streaming.Remote = content.PublicURLFor(cfg.Upload.PublicBaseURL, prefix+"/"+hls.PlaylistName)
		if err := store.Update(ctx, rec); err != nil {
			t.Fatalf("seed update: %v", err)
		}
	}
}

func TestSnapshotUploadsAndRecordsContentURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seedRemoteUploaded(t, cfg, store, "snap-ok")

	rclone := &fakeRclone{listing: "  1234 segment_000.ts\n  1234 segment_001.ts\n"}
	stg := upload.NewStage(cfg, store, rclone, logging.NewNop())
	results, err := stg.Snapshot(ctx, "snap-ok")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if results.Successes() != len(language.All()) {
		t.Fatalf("expected all snapshots uploaded, got %d", results.Successes())
	}

	rec, _ := store.Get(ctx, "snap-ok", language.JaJP)
	want := cfg.Upload.PublicBaseURL + "/ja-JP/daily-news/snap-ok.json"
	if rec.ContentURL != want {
		t.Fatalf("content URL = %q, want %q", rec.ContentURL, want)
	}
	if rec.Status != content.StatusContentUpload {
		t.Fatalf("target status = %s, want %s", rec.Status, content.StatusContentUpload)
	}

	var sawCopy bool
	for _, c := range rclone.recorded() {
		if c.args[0] == "copyto" && strings.HasSuffix(c.args[2], "/ja-JP/daily-news/snap-ok.json") {
			sawCopy = true
		}
	}
	if !sawCopy {
		t.Fatal("expected a copyto call for the ja-JP snapshot")
	}
}

func TestSnapshotRemovesTempFileOnFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seedRemoteUploaded(t, cfg, store, "snap-cleanup")

	rclone := &fakeRclone{failCopy: true}
	stg := upload.NewStage(cfg, store, rclone, logging.NewNop())
	results, err := stg.Snapshot(ctx, "snap-cleanup")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	for lang, res := range results {
		if res.Success {
			t.Fatalf("%s should fail when copy fails", lang)
		}
	}

	leftovers, err := filepath.Glob(filepath.Join(os.TempDir(), "snap-cleanup-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("transient snapshot files not cleaned up: %v", leftovers)
	}
}

func TestSnapshotRequiresUploadedStreams(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedContent(t, store, "snap-early", content.StatusM3U8, "Body.")

	stg := upload.NewStage(cfg, store, &fakeRclone{}, logging.NewNop())
	_, err := stg.Snapshot(context.Background(), "snap-early")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected aggregate eligibility error, got %v", err)
	}
}
