package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/postbuilder/postbuilder/internal/logfields"
	"github.com/postbuilder/postbuilder/internal/metrics"
	"github.com/postbuilder/postbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command: continuous rebuilds driven by
// filesystem events and an optional schedule.
type WatchCmd struct{}

func (w *WatchCmd) Run(g *Global) error {
	cfg, err := LoadConfig(g)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rec metrics.Recorder = metrics.NoopRecorder{}
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
		metricsServer = metrics.NewServer(cfg.Metrics.Listen, reg)
		go func() {
			slog.Info("metrics endpoint listening", slog.String("addr", cfg.Metrics.Listen))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", logfields.Error(err))
			}
		}()
	}

	// The watcher observes the local content tree; a git source is synced on
	// the first build and again on every scheduled rescan.
	root, err := ResolveContentRoot(ctx, cfg)
	if err != nil {
		return err
	}

	rebuild := func(ctx context.Context) error {
		return RunBuild(ctx, cfg, cfg.Content.OnInvalid, rec)
	}

	if err := rebuild(ctx); err != nil {
		// Keep watching: broken content is exactly when a rebuild-on-save
		// loop is useful.
		slog.Error("initial build failed", logfields.Error(err))
	}

	watcher, err := watch.New(watch.Config{
		Root:     root,
		Debounce: cfg.DebounceDuration(),
		Schedule: cfg.Watch.Schedule,
	}, rebuild)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	slog.Info("shutting down")

	if err := watcher.Stop(); err != nil {
		slog.Error("error stopping watcher", logfields.Error(err))
	}
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error stopping metrics server", logfields.Error(err))
		}
	}
	return nil
}
