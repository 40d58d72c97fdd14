package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/noisebench/internal/ctxlog"
	"github.com/vk/noisebench/internal/manager"
	"github.com/vk/noisebench/internal/noise"
	"github.com/vk/noisebench/internal/sampler"
	"github.com/vk/noisebench/internal/watcher"
)

// Run executes the playground until the context is cancelled (or, with an
// output file configured, until one frame has been rendered).
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	scriptPath, err := a.selectScript()
	if err != nil {
		return err
	}
	a.logger.Info("Noise script selected.", "path", scriptPath)

	a.mgr.Subscribe(func(ev manager.SwapEvent) {
		a.metrics.RecordReload(ev.Err == nil)
		if ev.Err != nil {
			return
		}
		a.metrics.SetActiveGeneration(ev.Generation)
		a.metrics.SetGraphNodes(ev.Graph.NodeCount())
		a.requestSample()
	})

	buildErr := a.reload(ctx, scriptPath)

	// One-shot mode: render a single frame to the output file and exit.
	if a.config.Output != "" {
		if buildErr != nil {
			return fmt.Errorf("failed to build %s: %w", scriptPath, buildErr)
		}
		a.sampleOnce(ctx)
		return a.writeFrame()
	}

	// Live mode: a rejected first build is not fatal; the playground keeps
	// running so the user can fix the script and save again.
	if buildErr != nil {
		a.logger.Warn("Initial build rejected; waiting for script changes.", "error", buildErr)
	}

	if a.config.Port > 0 {
		a.startWebServer(ctx)
	}

	go a.sampleLoop(ctx)

	w, err := watcher.New(filepath.Dir(scriptPath), func(changed string) {
		// Only the selected script drives the live view; edits to sibling
		// scripts are ignored.
		if filepath.Clean(changed) != filepath.Clean(scriptPath) {
			a.logger.Debug("Ignoring change to unselected script.", "path", changed)
			return
		}
		if err := a.reload(ctx, scriptPath); err != nil {
			// Already reported through the swap hook and the manager's
			// own logging; the previous generation stays live.
			return
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	go func() {
		if err := w.Run(ctx); err != nil {
			a.logger.Error("Script watcher stopped.", "error", err)
		}
	}()

	<-ctx.Done()
	a.logger.Info("Shutting down.")
	return nil
}

// reload runs one build pass for the script and swaps it in on success.
func (a *App) reload(ctx context.Context, path string) error {
	return a.mgr.Reload(ctx, path, func(ctx context.Context) (*noise.Graph, error) {
		return a.loader.Load(ctx, path)
	})
}

// requestSample coalesces resample triggers into the single-slot channel.
func (a *App) requestSample() {
	select {
	case a.resample <- struct{}{}:
	default:
	}
}

// sampleLoop serves resample requests until the context is cancelled.
func (a *App) sampleLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.resample:
			a.sampleOnce(ctx)
		}
	}
}

// sampleOnce samples the active generation into a fresh frame. A reload
// racing this call is harmless: the sample finishes against whichever
// generation it captured, and the swap hook queues another pass.
func (a *App) sampleOnce(ctx context.Context) {
	g := a.mgr.Current()
	if g == nil {
		return
	}
	generation := a.mgr.Generation()

	req := sampler.Request{
		X0: a.config.X0, Y0: a.config.Y0,
		X1: a.config.X1, Y1: a.config.Y1,
		Width:  a.config.Size,
		Height: a.config.Size,
	}
	start := time.Now()
	buf := sampler.Sample(ctx, g, req, a.config.Workers)
	elapsed := time.Since(start)
	a.metrics.ObserveSample(elapsed, len(buf))

	a.frame.Store(&Frame{
		Width:      req.Width,
		Height:     req.Height,
		Generation: generation,
		Samples:    buf,
	})
	a.logger.Info("Heightmap updated.",
		"generation", generation, "cells", len(buf), "elapsed", elapsed)
}

// writeFrame renders the freshest frame to the configured output file.
func (a *App) writeFrame() error {
	frame := a.frame.Load()
	if frame == nil {
		return fmt.Errorf("no frame was sampled")
	}
	out, err := os.Create(a.config.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()
	if err := frame.EncodePNG(out); err != nil {
		return fmt.Errorf("failed to encode heightmap: %w", err)
	}
	a.logger.Info("Heightmap written.", "path", a.config.Output, "size", frame.Width)
	return nil
}
