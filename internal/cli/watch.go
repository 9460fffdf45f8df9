package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// Refresher reloads a catalog.
type Refresher interface {
	Refresh(ctx context.Context) []domain.TourDefinition
}

// WatchTours refreshes the engine whenever files under dir change, so tour
// authors see edits without restarting. Bursts of events cause one reload.
func WatchTours(ctx context.Context, dir string, r Refresher, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Info("watching tours", "dir", dir)

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				reload = time.After(reloadDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-reload:
			reload = nil
			tours := r.Refresh(ctx)
			logger.Info("tours reloaded", "tours", len(tours))
		}
	}
}
