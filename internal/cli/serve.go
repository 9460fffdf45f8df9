package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/clickpath"
	"github.com/aretw0/clickpath/internal/config"
	"github.com/aretw0/clickpath/internal/presentation/tui"
	"github.com/aretw0/clickpath/pkg/adapters/browser"
	api "github.com/aretw0/clickpath/pkg/adapters/http"
	"github.com/aretw0/clickpath/pkg/adapters/memory"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/observability"
	"github.com/aretw0/clickpath/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configures Serve.
type ServeOptions struct {
	Config *config.Config
	Logger *slog.Logger

	// Output receives the terminal rendering of steps when no browser runs.
	Output io.Writer

	// Watch reloads the catalog when files in the bundled directory change.
	Watch bool
}

// Serve runs the HTTP command surface until ctx is done or the browser page
// is closed. With the browser enabled, tours render into a live Playwright
// page; otherwise they render to Output against a virtual page.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg, logger := opts.Config, opts.Logger

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)
	stream := observability.NewStream(observability.WithStreamLogger(logger))

	store, closer, err := OpenStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closer.Close()

	var (
		page    ports.Page
		overlay ports.Overlay
		session *browser.Session
		closed  <-chan struct{}
	)
	if cfg.Browser.Enabled {
		session, err = browser.Launch(browser.SessionOptions{
			Headless: cfg.Browser.Headless,
			Install:  cfg.Browser.Install,
			Width:    cfg.Browser.Width,
			Height:   cfg.Browser.Height,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		defer session.Close()
		page = browser.NewPage(session.Page())
		overlay = browser.NewOverlay(session.Page())
		closed = session.Closed()
	} else {
		startURL := cfg.Browser.StartURL
		if startURL == "" {
			startURL = "about:blank"
		}
		page = memory.NewPage(startURL, domain.Size{
			Width:  float64(cfg.Browser.Width),
			Height: float64(cfg.Browser.Height),
		})
		overlay = tui.NewOverlay(opts.Output)
	}

	host, err := NewHostClient(cfg.API, logger)
	if err != nil {
		return err
	}
	if host != nil {
		// Before login the host answers 401; the browser session fixes that.
		if err := host.Status(ctx); err != nil {
			logger.Warn("host API not ready, tours fall back to cache", "endpoint", host.Endpoint(), "error", err)
		}
	}

	engine, err := NewEngine(cfg, EngineOptions{
		Page:    page,
		Overlay: overlay,
		Store:   store,
		Hooks:   domain.MergeHooks(metrics.Hooks(), stream.Hooks()),
		Logger:  logger,
		Remote:  host,
	})
	if err != nil {
		return err
	}
	if err := engine.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	if session != nil {
		bindOpts := []browser.BindOption{
			browser.WithHelpButton(cfg.Browser.HelpButton && engine.Features().EnableHelpButton),
			browser.WithBindLogger(logger),
		}
		if host != nil {
			bindOpts = append(bindOpts, browser.WithSessionSync(session.Context(), host, engine, cfg.API.BaseURL))
		}
		if err := browser.Bind(ctx, session.Page(), engine, bindOpts...); err != nil {
			return err
		}
		// The navigation callback syncs cookies and runs auto start.
		if err := session.Navigate(cfg.Browser.StartURL); err != nil {
			return err
		}
	} else if id, err := engine.AutoStart(ctx); err != nil {
		logger.Warn("auto start failed", "error", err)
	} else if id != "" {
		logger.Info("tour auto-started", "tour_id", id)
	}

	if opts.Watch && cfg.BundledDir != "" {
		go func() {
			if err := WatchTours(ctx, cfg.BundledDir, engine, logger); err != nil {
				logger.Error("tour watcher stopped", "error", err)
			}
		}()
	}

	handler := api.NewHandler(engine,
		api.WithStream(stream),
		api.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		api.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
		api.WithLogger(logger),
	)
	return listen(ctx, cfg.Server.Addr, handler, closed, logger, engine)
}

func listen(ctx context.Context, addr string, handler http.Handler, closed <-chan struct{}, logger *slog.Logger, engine *clickpath.Engine) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("ClickPath server listening", "addr", addr, "version", clickpath.Version)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down")
	case <-closed:
		logger.Info("browser page closed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	_ = engine.StopTour(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
		return srv.Close()
	}
	return nil
}
