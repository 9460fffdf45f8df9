// Package catalog loads the tour catalog through the fallback chain
// remote → cache → bundled.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/clickpath/internal/logging"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/ports"
)

// Loader resolves a catalog without ever failing: the worst outcome is an
// empty catalog with origin none.
type Loader struct {
	remote  ports.TourSource
	bundled ports.TourSource
	store   ports.Store
	cache   bool
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithRemote sets the primary source.
func WithRemote(src ports.TourSource) Option {
	return func(l *Loader) {
		l.remote = src
	}
}

// WithBundled sets the last-resort source.
func WithBundled(src ports.TourSource) Option {
	return func(l *Loader) {
		l.bundled = src
	}
}

// WithCache enables or disables writing remote results to the store.
// Reading the cache on remote failure is always attempted.
func WithCache(enabled bool) Option {
	return func(l *Loader) {
		l.cache = enabled
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(l *Loader) {
		l.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a loader over store.
func New(store ports.Store, opts ...Option) *Loader {
	l := &Loader{
		store:  store,
		cache:  true,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the first non-empty catalog of the chain. Colors and
// features from the remote (or the cache) are kept even when the tours
// come from the bundled source.
func (l *Loader) Load(ctx context.Context) *domain.Catalog {
	cat := l.loadRemote(ctx)
	if cat == nil {
		cat = l.loadCache(ctx)
	}
	if cat == nil {
		cat = &domain.Catalog{Origin: domain.OriginNone}
	}

	if len(cat.Tours) == 0 && l.bundled != nil {
		b, err := l.bundled.Fetch(ctx)
		switch {
		case err != nil:
			l.logger.Warn("failed to load bundled tours", "error", err)
		case len(b.Tours) > 0:
			l.logger.Info("using bundled tours", "count", len(b.Tours))
			cat.Tours = b.Tours
			cat.Origin = domain.OriginBundled
		}
	}
	if len(cat.Tours) == 0 {
		cat.Origin = domain.OriginNone
	}

	if l.hooks.OnCatalogLoad != nil {
		l.hooks.OnCatalogLoad(ctx, &domain.CatalogEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCatalogLoad},
			Origin:    string(cat.Origin),
			Tours:     len(cat.Tours),
		})
	}
	return cat
}

func (l *Loader) loadRemote(ctx context.Context) *domain.Catalog {
	if l.remote == nil {
		return nil
	}
	cat, err := l.remote.Fetch(ctx)
	if err != nil {
		l.logger.Warn("remote tours unavailable", "error", err)
		return nil
	}
	if cat.Origin == "" {
		cat.Origin = domain.OriginRemote
	}
	l.logger.Info("loaded remote tours", "count", len(cat.Tours), "user", cat.User)

	if l.cache {
		if err := l.save(ctx, cat); err != nil {
			l.logger.Warn("failed to cache catalog", "error", err)
		}
	}
	return cat
}

func (l *Loader) save(ctx context.Context, cat *domain.Catalog) error {
	if len(cat.Tours) > 0 {
		if err := l.put(ctx, domain.KeyCachedTours, cat.Tours); err != nil {
			return err
		}
	}
	if cat.Colors != nil {
		if err := l.put(ctx, domain.KeyCachedColors, cat.Colors); err != nil {
			return err
		}
	}
	if cat.Features != nil {
		if err := l.put(ctx, domain.KeyCachedConfig, cat.Features); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return l.store.Set(ctx, key, data)
}

// loadCache returns nil when nothing at all is cached.
func (l *Loader) loadCache(ctx context.Context) *domain.Catalog {
	cat := &domain.Catalog{Origin: domain.OriginCache}
	found := false

	if ok := l.get(ctx, domain.KeyCachedTours, &cat.Tours); ok {
		found = true
	}
	var colors domain.ThemeColors
	if ok := l.get(ctx, domain.KeyCachedColors, &colors); ok {
		cat.Colors = &colors
		found = true
	}
	var features domain.Features
	if ok := l.get(ctx, domain.KeyCachedConfig, &features); ok {
		cat.Features = &features
		found = true
	}

	if !found {
		return nil
	}
	l.logger.Info("using cached tours", "count", len(cat.Tours))
	return cat
}

func (l *Loader) get(ctx context.Context, key string, v any) bool {
	raw, err := l.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			l.logger.Warn("failed to read cache", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		l.logger.Warn("corrupt cache entry", "key", key, "error", err)
		return false
	}
	return true
}
