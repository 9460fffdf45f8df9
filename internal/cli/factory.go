// Package cli wires configuration, adapters and the engine together for the
// clickpath command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/clickpath"
	"github.com/aretw0/clickpath/internal/config"
	"github.com/aretw0/clickpath/internal/logging"
	"github.com/aretw0/clickpath/pkg/adapters/bundled"
	"github.com/aretw0/clickpath/pkg/adapters/corporater"
	"github.com/aretw0/clickpath/pkg/adapters/file"
	"github.com/aretw0/clickpath/pkg/adapters/memory"
	"github.com/aretw0/clickpath/pkg/adapters/redis"
	"github.com/aretw0/clickpath/pkg/adapters/sqlite"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/persistence/middleware"
	"github.com/aretw0/clickpath/pkg/ports"
)

// OpenStore builds the configured key-value store, wrapped in the redaction
// and encryption middlewares when they are configured. The returned closer
// releases connections held by the backend.
func OpenStore(ctx context.Context, cfg config.StorageConfig) (ports.Store, io.Closer, error) {
	var (
		store  ports.Store
		closer io.Closer = nopCloser{}
	)

	switch cfg.Backend {
	case config.BackendMemory, "":
		store = memory.NewStore()
	case config.BackendFile:
		store = file.New(cfg.Path)
	case config.BackendRedis:
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Prefix),
			redis.WithTTL(cfg.TTL),
		)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		store, closer = rs, rs
	case config.BackendSQLite:
		ss, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		store, closer = ss, ss
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.Redact))
	}
	if cfg.EncryptionKey != "" {
		key, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			_ = closer.Close()
			return nil, nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return middleware.Chain(store, mws...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// EngineOptions are the pieces that differ between commands.
type EngineOptions struct {
	Page    ports.Page
	Overlay ports.Overlay
	Store   ports.Store
	Hooks   domain.LifecycleHooks
	Logger  *slog.Logger

	// Bundled replaces the configured bundled source, used by previews.
	Bundled ports.TourSource

	// Remote is the host API client. When nil and the configuration names a
	// base URL, NewEngine creates one.
	Remote *corporater.Client
}

// NewHostClient creates the host API client, or returns nil when no base
// URL is configured.
func NewHostClient(cfg config.APIConfig, logger *slog.Logger) (*corporater.Client, error) {
	if cfg.BaseURL == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return corporater.New(cfg.BaseURL,
		corporater.WithTimeout(cfg.Timeout),
		corporater.WithLogger(logger),
	)
}

// NewEngine builds an engine from the configuration. It does not load the
// catalog; callers run Init.
func NewEngine(cfg *config.Config, opts EngineOptions) (*clickpath.Engine, error) {
	if opts.Page == nil || opts.Overlay == nil {
		return nil, errors.New("page and overlay are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	engineOpts := []clickpath.Option{
		clickpath.WithLogger(logger),
		clickpath.WithCache(cfg.Tour.CacheEnabled),
		clickpath.WithFeatures(domain.Features{
			EnableAutoStart:  cfg.Features.EnableAutoStart,
			EnableHelpButton: cfg.Features.EnableHelpButton,
		}),
		clickpath.WithUserRoles(cfg.User.Roles...),
		clickpath.WithLifecycleHooks(domain.MergeHooks(debugHooks(logger), opts.Hooks)),
	}
	if opts.Store != nil {
		engineOpts = append(engineOpts, clickpath.WithStore(opts.Store))
	}

	bundledSrc := opts.Bundled
	if bundledSrc == nil {
		if cfg.BundledDir != "" {
			bundledSrc = bundled.NewDir(cfg.BundledDir, bundled.WithLogger(logger))
		} else {
			bundledSrc = bundled.Default(bundled.WithLogger(logger))
		}
	}
	engineOpts = append(engineOpts, clickpath.WithBundled(bundledSrc))

	if opts.Bundled == nil {
		client := opts.Remote
		if client == nil {
			var err error
			if client, err = NewHostClient(cfg.API, logger); err != nil {
				return nil, err
			}
		}
		if client != nil {
			engineOpts = append(engineOpts, clickpath.WithRemote(client))
			if cfg.Tour.ProgressSync {
				engineOpts = append(engineOpts, clickpath.WithProgressSync(client))
			}
		}
	}

	return clickpath.New(opts.Page, opts.Overlay, engineOpts...), nil
}

func debugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTourStart: func(ctx context.Context, e *domain.TourEvent) {
			logger.Debug("Tour Start", "tour_id", e.TourID, "session_id", e.SessionID)
		},
		OnTourEnd: func(ctx context.Context, e *domain.TourEvent) {
			logger.Debug("Tour End", "tour_id", e.TourID, "status", e.Status)
		},
		OnStepShow: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("Step Show", "tour_id", e.TourID, "step_id", e.StepID, "has_target", e.HasTarget)
		},
		OnStepSkip: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("Step Skip", "tour_id", e.TourID, "step_id", e.StepID, "reason", e.Reason)
		},
		OnCatalogLoad: func(ctx context.Context, e *domain.CatalogEvent) {
			logger.Debug("Catalog Load", "origin", e.Origin, "tours", e.Tours)
		},
	}
}
