package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.VideoConcurrency < 1 {
		return errors.New("analysis.video_concurrency must be at least 1")
	}
	if c.Analysis.VideoTimeout < 1 {
		return errors.New("analysis.video_timeout must be at least 1 second")
	}
	if c.Analysis.AudioTimeout < 1 {
		return errors.New("analysis.audio_timeout must be at least 1 second")
	}
	if len(c.Analysis.SampleFractions) == 0 {
		return errors.New("analysis.sample_fractions must not be empty")
	}
	prev := -1.0
	for i, fraction := range c.Analysis.SampleFractions {
		if fraction <= 0 || fraction >= 1 {
			return fmt.Errorf("analysis.sample_fractions[%d] must be in (0, 1)", i)
		}
		if fraction <= prev {
			return errors.New("analysis.sample_fractions must be strictly increasing")
		}
		prev = fraction
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
