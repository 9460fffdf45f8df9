package ports

import (
	"context"

	"github.com/aretw0/clickpath/pkg/domain"
)

// TourSource fetches tours and host settings.
type TourSource interface {
	// Fetch returns a catalog. Malformed individual tours are dropped by the
	// source; an error means the source as a whole was unavailable.
	Fetch(ctx context.Context) (*domain.Catalog, error)
}

// ProgressSink receives progress records keyed by tour ID and user.
type ProgressSink interface {
	Report(ctx context.Context, progress domain.TourProgress) error
}
