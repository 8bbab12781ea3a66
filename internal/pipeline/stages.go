package pipeline

import (
	"log/slog"

	"castpipe/internal/audio"
	"castpipe/internal/command"
	"castpipe/internal/config"
	"castpipe/internal/content"
	"castpipe/internal/hls"
	"castpipe/internal/publish"
	"castpipe/internal/translate"
	"castpipe/internal/upload"
)

// Collaborators are the external contact points the stage services need.
// Tests swap these for fakes; production wiring uses the real command runner
// and HTTP clients.
type Collaborators struct {
	Runner     command.Runner
	Synth      audio.Synthesizer
	Dispatcher translate.Dispatcher
}

// DefaultStages builds the full stage-service table used by the CLI.
func DefaultStages(cfg *config.Config, store *content.Store, deps Collaborators, logger *slog.Logger) map[content.StageKind]StageService {
	translateStage := translate.NewStage(cfg, store, deps.Dispatcher, logger)
	audioStage := audio.NewStage(cfg, store, deps.Synth, logger)
	streamingStage := hls.NewStage(cfg, store, deps.Runner, logger)
	uploadStage := upload.NewStage(cfg, store, deps.Runner, logger)
	publishStage := publish.NewStage(cfg, store, logger)

	return map[content.StageKind]StageService{
		content.StageTranslate:     translateStage.Trigger,
		content.StageAudio:         audioStage.Generate,
		content.StageStreaming:     streamingStage.Convert,
		content.StageRemoteUpload:  uploadStage.Audio,
		content.StageContentUpload: uploadStage.Snapshot,
		content.StagePublish:       publishStage.Finalize,
	}
}
