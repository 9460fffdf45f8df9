// Package progress records tour outcomes locally and forwards them to the
// host application.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/clickpath/internal/logging"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/ports"
)

// Tracker implements ports.ProgressSink over a key-value store. Terminal
// records become completion markers; every record is forwarded to the remote
// sink when one is set.
type Tracker struct {
	store  ports.Store
	remote ports.ProgressSink
	logger *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithRemote forwards records to a remote sink after they are stored.
func WithRemote(sink ports.ProgressSink) Option {
	return func(t *Tracker) {
		t.remote = sink
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// NewTracker creates a tracker writing to store.
func NewTracker(store ports.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Report stores the completion marker and forwards the record.
// Remote failures are logged, not returned.
func (t *Tracker) Report(ctx context.Context, p domain.TourProgress) error {
	if p.Status == domain.ProgressCompleted || p.Status == domain.ProgressSkipped {
		marker := domain.Completion{Status: p.Status, Version: p.Version}
		if p.CompletedAt != nil {
			marker.CompletedAt = *p.CompletedAt
		} else {
			marker.CompletedAt = time.Now()
		}

		data, err := json.Marshal(marker)
		if err != nil {
			return fmt.Errorf("failed to encode completion: %w", err)
		}
		if err := t.store.Set(ctx, domain.CompletionKey(p.TourID), data); err != nil {
			return fmt.Errorf("failed to save completion of %s: %w", p.TourID, err)
		}
	}

	if t.remote != nil {
		if err := t.remote.Report(ctx, p); err != nil {
			t.logger.Warn("failed to sync progress", "tour", p.TourID, "error", err)
		}
	}
	return nil
}

// Completion returns the stored marker of a tour, or nil when there is none.
func (t *Tracker) Completion(ctx context.Context, tourID string) (*domain.Completion, error) {
	raw, err := t.store.Get(ctx, domain.CompletionKey(tourID))
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read completion of %s: %w", tourID, err)
	}

	var c domain.Completion
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to decode completion of %s: %w", tourID, err)
	}
	return &c, nil
}

// Completed reports whether the tour has a completion marker.
func (t *Tracker) Completed(ctx context.Context, tourID string) (bool, error) {
	c, err := t.Completion(ctx, tourID)
	return c != nil, err
}

// List returns the IDs of every tour with a completion marker.
func (t *Tracker) List(ctx context.Context) ([]string, error) {
	keys, err := t.store.List(ctx, domain.KeyCompletedPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, domain.KeyCompletedPrefix))
	}
	return ids, nil
}

// Reset removes the marker of one tour, or of every tour when tourID is empty.
func (t *Tracker) Reset(ctx context.Context, tourID string) error {
	ids := []string{tourID}
	if tourID == "" {
		var err error
		if ids, err = t.List(ctx); err != nil {
			return err
		}
	}
	for _, id := range ids {
		if err := t.store.Delete(ctx, domain.CompletionKey(id)); err != nil {
			return fmt.Errorf("failed to reset %s: %w", id, err)
		}
	}
	return nil
}
