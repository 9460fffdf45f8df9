package memory

import (
	"context"
	"sync"

	"github.com/aretw0/clickpath/pkg/domain"
)

// Page implements ports.Page over a static map of selectors to rectangles.
// It stands in for a DOM in tests and in browserless mode.
type Page struct {
	mu       sync.RWMutex
	url      string
	viewport domain.Size
	elements map[string]domain.Rect
	scrolled []string
}

// NewPage creates a page at url with the given viewport.
func NewPage(url string, viewport domain.Size) *Page {
	return &Page{
		url:      url,
		viewport: viewport,
		elements: make(map[string]domain.Rect),
	}
}

// Navigate changes the current URL.
func (p *Page) Navigate(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
}

// AddElement registers an element under selector.
func (p *Page) AddElement(selector string, rect domain.Rect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[selector] = rect
}

// RemoveElement unregisters an element.
func (p *Page) RemoveElement(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, selector)
}

// Scrolled returns the selectors passed to ScrollIntoView, in order.
func (p *Page) Scrolled() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.scrolled...)
}

func (p *Page) URL(ctx context.Context) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.url, nil
}

func (p *Page) Query(ctx context.Context, selector string) (*domain.Rect, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rect, ok := p.elements[selector]
	if !ok {
		return nil, nil
	}
	return &rect, nil
}

func (p *Page) Viewport(ctx context.Context) (domain.Size, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewport, nil
}

func (p *Page) ScrollIntoView(ctx context.Context, selector string, behavior domain.ScrollBehavior) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrolled = append(p.scrolled, selector)
	return nil
}
