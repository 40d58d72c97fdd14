package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vk/noisebench/internal/fsutil"
	"github.com/vk/noisebench/internal/manager"
	"github.com/vk/noisebench/internal/metrics"
	"github.com/vk/noisebench/internal/script"
)

// App encapsulates the playground's dependencies and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   *script.Loader
	mgr      *manager.Manager
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// frame holds the freshest sampled heightmap; nil until the first
	// successful build has been sampled.
	frame atomic.Pointer[Frame]
	// resample carries at most one pending sample request, coalescing
	// bursts of reloads into a single pass over the latest generation.
	resample chan struct{}
}

// NewApp constructs the application with its own isolated logger, metrics
// registry, manager and script loader.
func NewApp(outW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	registry := prometheus.NewRegistry()
	return &App{
		outW:     outW,
		logger:   logger,
		config:   config,
		loader:   script.NewLoader(),
		mgr:      manager.New(),
		registry: registry,
		metrics:  metrics.New(registry),
		resample: make(chan struct{}, 1),
	}
}

// Manager exposes the graph manager, primarily for tests.
func (a *App) Manager() *manager.Manager {
	return a.mgr
}

// Frame returns the freshest sampled heightmap, or nil before the first
// successful sample.
func (a *App) Frame() *Frame {
	return a.frame.Load()
}

// selectScript resolves the configured script path to a single file.
func (a *App) selectScript() (string, error) {
	info, err := os.Stat(a.config.ScriptPath)
	if err != nil {
		return "", fmt.Errorf("error accessing script path %s: %w", a.config.ScriptPath, err)
	}
	if !info.IsDir() {
		return a.config.ScriptPath, nil
	}

	scripts, err := fsutil.FindScripts(a.config.ScriptPath)
	if err != nil {
		return "", fmt.Errorf("error discovering scripts under %s: %w", a.config.ScriptPath, err)
	}
	if len(scripts) == 0 {
		return "", fmt.Errorf("no noise scripts found under %s", a.config.ScriptPath)
	}
	if a.config.ScriptName == "" {
		return scripts[0], nil
	}
	for _, s := range scripts {
		if filepath.Base(s) == a.config.ScriptName {
			return s, nil
		}
	}
	return "", fmt.Errorf("script %q not found under %s", a.config.ScriptName, a.config.ScriptPath)
}
