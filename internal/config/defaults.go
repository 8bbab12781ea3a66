package config

const (
	defaultContentDir       = "~/.local/share/castpipe/content"
	defaultAudioDir         = "~/.local/share/castpipe/audio"
	defaultLogDir           = "~/.local/share/castpipe/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultStageConcurrency = 3
	defaultFFmpegBinary     = "ffmpeg"
	defaultRcloneBinary     = "rclone"
	defaultSegmentSeconds   = 10
	defaultTTSTimeout       = 60
	defaultCommandTimeout   = 300
	defaultDispatchTimeout  = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ContentDir: defaultContentDir,
			AudioDir:   defaultAudioDir,
			LogDir:     defaultLogDir,
		},
		TTS: TTS{
			TimeoutSeconds: defaultTTSTimeout,
			Voices: map[string]Voice{
				"zh-TW": {Name: "cmn-TW-Wavenet-B", SpeakingRate: 1.0},
				"en-US": {Name: "en-US-Neural2-J", SpeakingRate: 1.0},
				"ja-JP": {Name: "ja-JP-Neural2-C", SpeakingRate: 1.0},
			},
		},
		Streaming: Streaming{
			FFmpegBinary:   defaultFFmpegBinary,
			SegmentSeconds: defaultSegmentSeconds,
			TimeoutSeconds: defaultCommandTimeout,
		},
		Upload: Upload{
			RcloneBinary:   defaultRcloneBinary,
			TimeoutSeconds: defaultCommandTimeout,
		},
		Translate: Translate{
			TimeoutSeconds: defaultDispatchTimeout,
		},
		Pipeline: Pipeline{
			StageConcurrency: defaultStageConcurrency,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
