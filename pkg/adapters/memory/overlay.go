package memory

import (
	"context"
	"sync"

	"github.com/aretw0/clickpath/pkg/domain"
)

// Overlay implements ports.Overlay by recording what it was asked to draw.
type Overlay struct {
	mu sync.Mutex

	// TooltipSize is returned by Show as the measured tooltip size.
	TooltipSize domain.Size

	mounted   bool
	colors    domain.ThemeColors
	views     []domain.StepView
	positions []domain.Point
	unmounts  int
}

// NewOverlay creates an overlay whose tooltip measures size.
func NewOverlay(size domain.Size) *Overlay {
	return &Overlay{TooltipSize: size}
}

func (o *Overlay) Mount(ctx context.Context, colors domain.ThemeColors) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mounted = true
	o.colors = colors
	return nil
}

func (o *Overlay) Show(ctx context.Context, view domain.StepView) (domain.Size, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.views = append(o.views, view)
	return o.TooltipSize, nil
}

func (o *Overlay) Place(ctx context.Context, tooltip domain.Point) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.positions = append(o.positions, tooltip)
	return nil
}

func (o *Overlay) Unmount(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mounted {
		o.unmounts++
	}
	o.mounted = false
	return nil
}

// Mounted reports whether the overlay is currently on the page.
func (o *Overlay) Mounted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mounted
}

// Colors returns the palette passed to the last Mount.
func (o *Overlay) Colors() domain.ThemeColors {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.colors
}

// Views returns every rendered step view, in order.
func (o *Overlay) Views() []domain.StepView {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.StepView(nil), o.views...)
}

// LastView returns the most recent step view.
func (o *Overlay) LastView() (domain.StepView, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.views) == 0 {
		return domain.StepView{}, false
	}
	return o.views[len(o.views)-1], true
}

// Positions returns every tooltip position, in order.
func (o *Overlay) Positions() []domain.Point {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.Point(nil), o.positions...)
}

// Unmounts counts the teardowns of a mounted overlay.
func (o *Overlay) Unmounts() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.unmounts
}
