package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// healthHandler reports liveness and the active generation, if any.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK generation=%d\n", a.mgr.Generation())
}

// frameHandler serves the freshest heightmap as a grayscale PNG.
func (a *App) frameHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Heightmap endpoint hit.", "remote_addr", r.RemoteAddr)
	frame := a.frame.Load()
	if frame == nil {
		http.Error(w, "no heightmap sampled yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := frame.EncodePNG(w); err != nil {
		a.logger.Error("Failed to encode heightmap.", "error", err)
	}
}

// startWebServer initializes and runs the live-view HTTP server.
func (a *App) startWebServer(ctx context.Context) {
	a.logger.Debug("Configuring live-view server.")
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/heightmap.png", a.frameHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf(":%d", a.config.Port)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	go func() {
		a.logger.Info("🗺️ Live view server starting", "address", fmt.Sprintf("http://localhost%s/heightmap.png", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("Live view server failed", "error", err)
		}
	}()
}
