package ports

import (
	"context"

	"github.com/aretw0/clickpath/pkg/domain"
)

// Page gives the engine read access to the page being toured.
type Page interface {
	// URL returns the current page URL.
	URL(ctx context.Context) (string, error)

	// Query returns the bounding box of the first element matching selector,
	// relative to the viewport. It returns nil (and no error) when nothing matches.
	Query(ctx context.Context, selector string) (*domain.Rect, error)

	// Viewport returns the size of the visible area.
	Viewport(ctx context.Context) (domain.Size, error)

	// ScrollIntoView brings the element matching selector into view.
	ScrollIntoView(ctx context.Context, selector string, behavior domain.ScrollBehavior) error
}

// Overlay is the rendering adapter that observes tour state and draws it.
type Overlay interface {
	// Mount creates the overlay container using the given palette.
	Mount(ctx context.Context, colors domain.ThemeColors) error

	// Show renders the step content and returns the measured tooltip size.
	Show(ctx context.Context, view domain.StepView) (domain.Size, error)

	// Place moves the tooltip to the given position.
	Place(ctx context.Context, tooltip domain.Point) error

	// Unmount removes everything the overlay rendered. It is safe to call twice.
	Unmount(ctx context.Context) error
}
