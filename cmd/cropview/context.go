package main

import (
	"io"

	"go.uber.org/zap"

	"github.com/sebnyberg/cropview"
	"github.com/sebnyberg/cropview/internal/config"
	"github.com/sebnyberg/cropview/internal/logging"
)

type commandContext struct {
	configFlag *string
	logLevel   *string

	cfg    *config.Config
	logger *zap.Logger
}

func newCommandContext(configFlag, logLevel *string) *commandContext {
	return &commandContext{configFlag: configFlag, logLevel: logLevel}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, _, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, err
	}
	if *c.logLevel != "" {
		cfg.Log.Level = *c.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) ensureLogger(w io.Writer) (*zap.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log, w)
	if err != nil {
		return nil, err
	}
	c.logger = logger
	return logger, nil
}

func (c *commandContext) newPipeline(w io.Writer) (*cropview.Pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger(w)
	if err != nil {
		return nil, err
	}
	dec, err := newDecoder(cfg.Decode.Backend, logger)
	if err != nil {
		return nil, err
	}
	opts := append(cfg.Options(),
		cropview.WithDecoder(dec),
		cropview.WithLogger(logger),
	)
	return cropview.New(opts...), nil
}
