package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStreaming(); err != nil {
		return err
	}
	if err := c.validateUpload(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ContentDir) == "" {
		return fmt.Errorf("paths.content_dir must be set")
	}
	if strings.TrimSpace(c.Paths.AudioDir) == "" {
		return fmt.Errorf("paths.audio_dir must be set")
	}
	return nil
}

func (c *Config) validateStreaming() error {
	if c.Streaming.SegmentSeconds <= 0 {
		return fmt.Errorf("streaming.segment_seconds must be positive, got %d", c.Streaming.SegmentSeconds)
	}
	return nil
}

func (c *Config) validateUpload() error {
	remote := strings.TrimSpace(c.Upload.Remote)
	if remote != "" && !strings.Contains(remote, ":") {
		return fmt.Errorf("upload.remote must be an rclone remote spec (remote:bucket), got %q", remote)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}
