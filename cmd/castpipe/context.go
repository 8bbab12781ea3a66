package main

import (
	"log/slog"
	"strings"
	"sync"

	"castpipe/internal/command"
	"castpipe/internal/config"
	"castpipe/internal/content"
	"castpipe/internal/logging"
	"castpipe/internal/pipeline"
	"castpipe/internal/translate"
	"castpipe/internal/tts"
)

// commandContext lazily builds shared dependencies so that commands which
// never touch the store or the pipeline do not pay for them.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	storeOnce sync.Once
	store     *content.Store
	storeErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg.Logging.Level, cfg.Logging.Format, cfg.Paths.LogDir)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureStore() (*content.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		c.store, c.storeErr = content.Open(cfg)
	})
	return c.store, c.storeErr
}

// buildOrchestrator wires every stage service to its external collaborators.
func (c *commandContext) buildOrchestrator() (*pipeline.Orchestrator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	store, err := c.ensureStore()
	if err != nil {
		return nil, err
	}

	synth, err := tts.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	dispatcher, err := translate.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	stages := pipeline.DefaultStages(cfg, store, pipeline.Collaborators{
		Runner:     command.New(),
		Synth:      synth,
		Dispatcher: dispatcher,
	}, logger)
	return pipeline.NewOrchestrator(store, stages, logger)
}
