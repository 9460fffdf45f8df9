package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/clickpath/internal/logging"
	"github.com/aretw0/clickpath/pkg/domain"
)

// Stream fans lifecycle events out to subscribers as JSON messages.
type Stream struct {
	mu          sync.RWMutex
	subscribers map[chan []byte]struct{}
	buffer      int
	logger      *slog.Logger
}

// StreamOption configures a Stream.
type StreamOption func(*Stream)

// WithBuffer sets the per-subscriber buffer size (default 16).
func WithBuffer(n int) StreamOption {
	return func(s *Stream) {
		s.buffer = n
	}
}

// WithStreamLogger sets the logger.
func WithStreamLogger(logger *slog.Logger) StreamOption {
	return func(s *Stream) {
		s.logger = logger
	}
}

// NewStream creates an empty stream.
func NewStream(opts ...StreamOption) *Stream {
	s := &Stream{
		subscribers: make(map[chan []byte]struct{}),
		buffer:      16,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a subscriber. The returned func unsubscribes and
// closes the channel.
func (s *Stream) Subscribe() (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan []byte, s.buffer)
	s.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, ch)
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscribers.
func (s *Stream) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

// Publish encodes v and delivers it to every subscriber. Slow subscribers
// lose the message rather than blocking the engine.
func (s *Stream) Publish(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode event", "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- msg:
		default:
			s.logger.Warn("subscriber buffer full, dropping event", "size", len(msg))
		}
	}
}

// Hooks returns lifecycle hooks publishing every event.
func (s *Stream) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTourStart:   func(ctx context.Context, e *domain.TourEvent) { s.Publish(e) },
		OnTourEnd:     func(ctx context.Context, e *domain.TourEvent) { s.Publish(e) },
		OnStepShow:    func(ctx context.Context, e *domain.StepEvent) { s.Publish(e) },
		OnStepSkip:    func(ctx context.Context, e *domain.StepEvent) { s.Publish(e) },
		OnCatalogLoad: func(ctx context.Context, e *domain.CatalogEvent) { s.Publish(e) },
	}
}
