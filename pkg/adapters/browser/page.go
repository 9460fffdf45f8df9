package browser

import (
	"context"
	"fmt"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/playwright-community/playwright-go"
)

const queryScript = `(sel) => {
  let el;
  try { el = document.querySelector(sel); } catch (e) { return null; }
  if (!el) return null;
  const r = el.getBoundingClientRect();
  return { top: r.top, left: r.left, width: r.width, height: r.height };
}`

const viewportScript = `() => ({ width: window.innerWidth, height: window.innerHeight })`

const scrollScript = `([sel, behavior]) => {
  const el = document.querySelector(sel);
  if (el) el.scrollIntoView({ behavior, block: 'center', inline: 'nearest' });
}`

// Page implements ports.Page over a Playwright page.
type Page struct {
	page playwright.Page
}

// NewPage wraps a Playwright page.
func NewPage(page playwright.Page) *Page {
	return &Page{page: page}
}

// URL returns the current page URL.
func (p *Page) URL(ctx context.Context) (string, error) {
	return p.page.URL(), nil
}

// Query measures the first element matching selector. Invalid selectors
// count as no match.
func (p *Page) Query(ctx context.Context, selector string) (*domain.Rect, error) {
	v, err := p.page.Evaluate(queryScript, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", selector, err)
	}
	if v == nil {
		return nil, nil
	}
	r, ok := rectFrom(v)
	if !ok {
		return nil, fmt.Errorf("unexpected query result %T", v)
	}
	return &r, nil
}

// Viewport returns the inner window size.
func (p *Page) Viewport(ctx context.Context) (domain.Size, error) {
	v, err := p.page.Evaluate(viewportScript)
	if err != nil {
		return domain.Size{}, fmt.Errorf("failed to read viewport: %w", err)
	}
	s, ok := sizeFrom(v)
	if !ok {
		return domain.Size{}, fmt.Errorf("unexpected viewport result %T", v)
	}
	return s, nil
}

// ScrollIntoView centers the element in the viewport.
func (p *Page) ScrollIntoView(ctx context.Context, selector string, behavior domain.ScrollBehavior) error {
	if behavior == domain.ScrollNone {
		return nil
	}
	if _, err := p.page.Evaluate(scrollScript, []any{selector, string(behavior)}); err != nil {
		return fmt.Errorf("failed to scroll to %q: %w", selector, err)
	}
	return nil
}

// Results of Evaluate come back as map[string]any with int or float64 numbers.

func rectFrom(v any) (domain.Rect, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return domain.Rect{}, false
	}
	return domain.Rect{
		Top:    number(m["top"]),
		Left:   number(m["left"]),
		Width:  number(m["width"]),
		Height: number(m["height"]),
	}, true
}

func sizeFrom(v any) (domain.Size, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return domain.Size{}, false
	}
	return domain.Size{Width: number(m["width"]), Height: number(m["height"])}, true
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
