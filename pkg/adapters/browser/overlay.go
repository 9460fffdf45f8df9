package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/theme"
	"github.com/playwright-community/playwright-go"
)

// RootID is the DOM id of the overlay container.
const RootID = "clickpath-root"

const baseCSS = `
#clickpath-root { position: fixed; inset: 0; z-index: 2147483000; pointer-events: none; font-family: system-ui, sans-serif; }
#clickpath-root .cp-backdrop { position: fixed; inset: 0; background: var(--clickpath-overlay-bg); pointer-events: auto; }
#clickpath-root .cp-spotlight { position: fixed; border-radius: 6px; box-shadow: 0 0 0 9999px var(--clickpath-overlay-bg); transition: all .2s ease; }
#clickpath-root .cp-spotlight.cp-pulse { outline: 3px solid var(--clickpath-primary); }
#clickpath-root .cp-spotlight.cp-border { outline: 2px solid var(--clickpath-primary); }
#clickpath-root .cp-tooltip { position: fixed; max-width: 360px; padding: 16px; border-radius: 8px; pointer-events: auto;
  background: var(--clickpath-background); color: var(--clickpath-text); border: 1px solid var(--clickpath-border);
  box-shadow: 0 8px 24px rgba(0,0,0,.2); }
#clickpath-root .cp-title { margin: 0 0 8px; font-size: 16px; }
#clickpath-root .cp-content { margin: 0 0 12px; font-size: 14px; color: var(--clickpath-text-muted); }
#clickpath-root .cp-footer { display: flex; gap: 8px; align-items: center; }
#clickpath-root .cp-progress { flex: 1; font-size: 12px; color: var(--clickpath-text-muted); }
#clickpath-root button { cursor: pointer; border-radius: 4px; padding: 6px 12px; border: 1px solid var(--clickpath-border);
  background: var(--clickpath-surface); color: var(--clickpath-text); }
#clickpath-root button.cp-next { background: var(--clickpath-primary); border-color: var(--clickpath-primary-dark); color: #fff; }
`

const mountScript = `([css, id]) => {
  document.getElementById(id)?.remove();
  document.getElementById(id + '-style')?.remove();
  const style = document.createElement('style');
  style.id = id + '-style';
  style.textContent = css;
  document.head.appendChild(style);
  const root = document.createElement('div');
  root.id = id;
  document.body.appendChild(root);
}`

const showScript = `([id, v]) => {
  const root = document.getElementById(id);
  if (!root) throw new Error('overlay not mounted');
  root.replaceChildren();
  const el = (tag, cls, text) => {
    const e = document.createElement(tag);
    if (cls) e.className = cls;
    if (text !== undefined) e.textContent = text;
    return e;
  };
  if (v.highlight) {
    const s = el('div', 'cp-spotlight' + (v.highlightStyle ? ' cp-' + v.highlightStyle : ''));
    Object.assign(s.style, { top: v.highlight.top + 'px', left: v.highlight.left + 'px',
      width: v.highlight.width + 'px', height: v.highlight.height + 'px' });
    if (!v.clickThrough) s.style.pointerEvents = 'auto';
    root.appendChild(s);
  } else {
    const b = el('div', 'cp-backdrop');
    b.style.opacity = v.overlayOpacity;
    root.appendChild(b);
  }
  const tip = el('div', 'cp-tooltip');
  tip.setAttribute('role', 'dialog');
  tip.appendChild(el('h3', 'cp-title', v.title));
  tip.appendChild(el('p', 'cp-content', v.content));
  const footer = el('div', 'cp-footer');
  footer.appendChild(el('span', 'cp-progress', v.showProgress ? v.indicator : ''));
  const button = (action, label) => {
    const b = el('button', 'cp-' + action, label);
    b.addEventListener('click', (ev) => { ev.stopPropagation(); window.__clickpathAction?.(action); });
    footer.appendChild(b);
  };
  if (v.showSkip) button('skip', v.skipLabel);
  if (v.showBack) button('prev', v.backLabel);
  if (v.showNext) button('next', v.nextLabel);
  tip.appendChild(footer);
  tip.style.visibility = 'hidden';
  root.appendChild(tip);
  const r = tip.getBoundingClientRect();
  return { width: r.width, height: r.height };
}`

const placeScript = `([id, p]) => {
  const tip = document.querySelector('#' + id + ' .cp-tooltip');
  if (!tip) return;
  tip.style.top = p.top + 'px';
  tip.style.left = p.left + 'px';
  tip.style.visibility = 'visible';
}`

const unmountScript = `(id) => {
  document.getElementById(id)?.remove();
  document.getElementById(id + '-style')?.remove();
}`

// Overlay implements ports.Overlay by injecting DOM into a Playwright page.
type Overlay struct {
	page playwright.Page
}

// NewOverlay creates an overlay drawing into page.
func NewOverlay(page playwright.Page) *Overlay {
	return &Overlay{page: page}
}

// Mount injects the stylesheet with the palette as CSS variables and an
// empty container.
func (o *Overlay) Mount(ctx context.Context, colors domain.ThemeColors) error {
	css := theme.CSS("#"+RootID, colors) + baseCSS
	if _, err := o.page.Evaluate(mountScript, []any{css, RootID}); err != nil {
		return fmt.Errorf("failed to mount overlay: %w", err)
	}
	return nil
}

// Show renders the step hidden and returns its measured size. Place reveals it.
func (o *Overlay) Show(ctx context.Context, view domain.StepView) (domain.Size, error) {
	arg, err := toArg(view)
	if err != nil {
		return domain.Size{}, err
	}
	v, err := o.page.Evaluate(showScript, []any{RootID, arg})
	if err != nil {
		return domain.Size{}, fmt.Errorf("failed to render step %s: %w", view.StepID, err)
	}
	size, ok := sizeFrom(v)
	if !ok {
		return domain.Size{}, fmt.Errorf("unexpected tooltip size %T", v)
	}
	return size, nil
}

// Place moves the tooltip and makes it visible.
func (o *Overlay) Place(ctx context.Context, p domain.Point) error {
	arg := map[string]any{"top": p.Top, "left": p.Left}
	if _, err := o.page.Evaluate(placeScript, []any{RootID, arg}); err != nil {
		return fmt.Errorf("failed to place tooltip: %w", err)
	}
	return nil
}

// Unmount removes the container and stylesheet.
func (o *Overlay) Unmount(ctx context.Context) error {
	if o.page.IsClosed() {
		return nil
	}
	if _, err := o.page.Evaluate(unmountScript, RootID); err != nil {
		return fmt.Errorf("failed to unmount overlay: %w", err)
	}
	return nil
}

// toArg converts a value to the plain maps Evaluate serializes.
func toArg(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode view: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to encode view: %w", err)
	}
	return out, nil
}
