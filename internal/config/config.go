package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ContentDir string `toml:"content_dir"`
	AudioDir   string `toml:"audio_dir"`
	LogDir     string `toml:"log_dir"`
}

// TTS contains configuration for the speech synthesis service.
type TTS struct {
	BaseURL        string           `toml:"base_url"`
	APIKey         string           `toml:"api_key"`
	TimeoutSeconds int              `toml:"timeout_seconds"`
	Voices         map[string]Voice `toml:"voices"`
}

// Voice selects the synthesis voice for one language.
type Voice struct {
	Name         string  `toml:"name"`
	SpeakingRate float64 `toml:"speaking_rate"`
}

// Streaming contains configuration for HLS segmentation.
type Streaming struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	SegmentSeconds int    `toml:"segment_seconds"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Upload contains configuration for remote object storage sync.
type Upload struct {
	RcloneBinary   string `toml:"rclone_binary"`
	Remote         string `toml:"remote"`
	PublicBaseURL  string `toml:"public_base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Translate contains configuration for the out-of-process translation
// workflow trigger.
type Translate struct {
	DispatchURL    string `toml:"dispatch_url"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Pipeline contains orchestration tuning.
type Pipeline struct {
	// StageConcurrency caps how many languages a stage processes in flight.
	StageConcurrency int `toml:"stage_concurrency"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for castpipe.
type Config struct {
	Paths     Paths     `toml:"paths"`
	TTS       TTS       `toml:"tts"`
	Streaming Streaming `toml:"streaming"`
	Upload    Upload    `toml:"upload"`
	Translate Translate `toml:"translate"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/castpipe/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to the given path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("castpipe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.ContentDir, err = expandPath(c.Paths.ContentDir); err != nil {
		return fmt.Errorf("paths.content_dir: %w", err)
	}
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Streaming.FFmpegBinary = strings.TrimSpace(c.Streaming.FFmpegBinary); c.Streaming.FFmpegBinary == "" {
		c.Streaming.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Upload.RcloneBinary = strings.TrimSpace(c.Upload.RcloneBinary); c.Upload.RcloneBinary == "" {
		c.Upload.RcloneBinary = defaultRcloneBinary
	}
	c.Upload.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.Upload.PublicBaseURL), "/")
	if c.Pipeline.StageConcurrency <= 0 {
		c.Pipeline.StageConcurrency = defaultStageConcurrency
	}
	if c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format)); c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level)); c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// EnsureDirectories creates required working directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ContentDir, c.Paths.AudioDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return filepath.Abs(path)
}
