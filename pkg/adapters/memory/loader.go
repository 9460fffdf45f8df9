package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/clickpath/pkg/domain"
)

// Source implements ports.TourSource with a fixed set of tours.
// Set Err to simulate an unavailable source.
type Source struct {
	Catalog domain.Catalog
	Err     error
	Calls   int
}

// NewSource creates a source serving the given tours.
func NewSource(tours ...domain.TourDefinition) *Source {
	return &Source{Catalog: domain.Catalog{Tours: tours}}
}

// Fetch returns a copy of the configured catalog.
func (s *Source) Fetch(ctx context.Context) (*domain.Catalog, error) {
	s.Calls++
	if s.Err != nil {
		return nil, fmt.Errorf("memory source: %w", s.Err)
	}
	c := s.Catalog
	c.Tours = append([]domain.TourDefinition(nil), s.Catalog.Tours...)
	return &c, nil
}
