package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"castpipe/internal/config"
	"castpipe/internal/content"
	"castpipe/internal/language"
	"castpipe/internal/logging"
	"castpipe/internal/services"
	"castpipe/internal/stage"
	"castpipe/internal/textproc"
	"castpipe/internal/tts"
	"castpipe/internal/wav"
)

// Synthesizer is the speech synthesis contract the stage depends on.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice tts.VoiceConfig) ([]byte, error)
	VoiceFor(lang language.Code) (tts.VoiceConfig, error)
}

// Stage generates per-language WAV files for a content id.
type Stage struct {
	cfg    *config.Config
	store  *content.Store
	synth  Synthesizer
	logger *slog.Logger
}

// NewStage constructs the audio generation stage.
func NewStage(cfg *config.Config, store *content.Store, synth Synthesizer, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:    cfg,
		store:  store,
		synth:  synth,
		logger: logging.NewComponentLogger(logger, "audio"),
	}
}

// Generate produces a WAV file for every language of the content id.
// Precondition: the source row must be at least translated; anything earlier
// is a workflow-ordering bug upstream and is reported, not retried.
func (s *Stage) Generate(ctx context.Context, contentID string) (stage.ResultMap, error) {
	src, err := s.store.GetSource(ctx, contentID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "audio", "load source row", contentID, err)
	}
	if src == nil {
		return nil, services.Wrap(services.ErrNotFound, "audio", "load source row",
			fmt.Sprintf("no source content for %s", contentID), nil)
	}
	if !src.Status.AtLeast(content.StatusTranslated) {
		return nil, services.Wrap(services.ErrValidation, "audio", "prepare",
			fmt.Sprintf("content %s has status %s; audio generation requires translated", contentID, src.Status), nil)
	}

	results := make(stage.ResultMap, len(language.All()))
	var mu sync.Mutex

	var group errgroup.Group
	group.SetLimit(s.cfg.Pipeline.StageConcurrency)
	for _, lang := range language.All() {
		lang := lang
		group.Go(func() error {
			res := s.generateForLanguage(ctx, contentID, lang)
			mu.Lock()
			results[lang] = res
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	s.logger.Info("audio generation finished",
		logging.String(logging.FieldContentID, contentID),
		logging.Int("languages", len(results)),
		logging.Int("succeeded", results.Successes()),
	)
	return results, nil
}

func (s *Stage) generateForLanguage(ctx context.Context, contentID string, lang language.Code) stage.Result {
	rec, err := s.store.Get(ctx, contentID, lang)
	if err != nil {
		return stage.Failf("load %s row: %v", lang, err)
	}
	if rec == nil {
		return stage.Failf("No %s content found", lang.Display())
	}

	spoken := textproc.PlainText(rec.Body)
	chunks := textproc.SplitContentIntoChunks(spoken)
	if len(chunks) == 0 {
		return stage.Fail("no spoken text after markup stripping")
	}

	voice, err := s.synth.VoiceFor(lang)
	if err != nil {
		return stage.Failf("voice lookup: %v", err)
	}

	// Chunks are synthesized in order; stitching depends on it.
	buffers := make([][]byte, 0, len(chunks))
	for i, chunk := range chunks {
		audio, err := s.synth.Synthesize(ctx, chunk, voice)
		if err != nil {
			return stage.Failf("synthesize chunk %d/%d: %v", i+1, len(chunks), err)
		}
		buffers = append(buffers, audio)
	}

	combined := buffers[0]
	if len(buffers) > 1 {
		combined, err = wav.Combine(buffers)
		if err != nil {
			return stage.Failf("stitch %d fragments: %v", len(buffers), err)
		}
	}

	path := content.AudioFilePathFor(s.cfg.Paths.AudioDir, lang, rec.Category, contentID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return stage.Failf("create audio directory: %v", err)
	}
	if err := os.WriteFile(path, combined, 0o644); err != nil {
		return stage.Failf("write waveform: %v", err)
	}

	rec.AudioFilePath = path
	// Target rows mirror the stage just completed; the source row's status
	// stays under orchestrator control.
	if !rec.IsSource() {
		rec.Status = content.StatusWAV
	}
	if err := s.store.Update(ctx, rec); err != nil {
		return stage.Failf("Database update failed: %v", err)
	}

	s.logger.Debug("waveform generated",
		logging.String(logging.FieldContentID, contentID),
		logging.String(logging.FieldLanguage, string(lang)),
		logging.Int("chunks", len(chunks)),
		logging.Int("bytes", len(combined)),
	)
	return stage.OK(path)
}
