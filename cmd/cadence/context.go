package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"cadence/internal/config"
	"cadence/internal/logging"
	"cadence/internal/registry"
	"cadence/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
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
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the analysis database for read-mostly commands.
func (c *commandContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(cfg, st)
}

// withRegistry runs fn inside an exclusive analysis session: the instance
// lock keeps two sessions from mutating the same database concurrently, and
// the registry is terminated when fn returns.
func (c *commandContext) withRegistry(fn func(*config.Config, *store.Store, *registry.Registry) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lock := flock.New(filepath.Join(cfg.Paths.StateDir, "cadence.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return errors.New("another cadence session is already running")
	}
	defer func() { _ = lock.Unlock() }()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	reg, err := registry.New(registry.Options{
		Store:  st,
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}
	defer reg.Terminate()

	return fn(cfg, st, reg)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
