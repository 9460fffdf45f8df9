package memory

import (
	"context"
	"sync"

	"github.com/aretw0/clickpath/pkg/domain"
)

// ProgressSink implements ports.ProgressSink by collecting records.
// Set Err to simulate a failing progress store.
type ProgressSink struct {
	mu      sync.Mutex
	records []domain.TourProgress
	Err     error
}

// NewProgressSink creates an empty recorder.
func NewProgressSink() *ProgressSink {
	return &ProgressSink{}
}

func (s *ProgressSink) Report(ctx context.Context, progress domain.TourProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, progress)
	return s.Err
}

// Records returns the reported progress records.
func (s *ProgressSink) Records() []domain.TourProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.TourProgress(nil), s.records...)
}
