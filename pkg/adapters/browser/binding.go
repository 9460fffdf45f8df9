package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/clickpath/internal/logging"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/playwright-community/playwright-go"
)

// BindingName is the page function overlay buttons call.
const BindingName = "__clickpathAction"

// Actions sent by the page.
const (
	ActionNext     = "next"
	ActionPrev     = "prev"
	ActionSkip     = "skip"
	ActionStop     = "stop"
	ActionHelp     = "help"
	ActionShortcut = "shortcut"
)

// Installed on every document: the floating help button and a keydown
// listener reporting modifier combos such as "Ctrl+Shift+T".
const initScript = `(() => {
  const send = (...a) => window.__clickpathAction?.(...a);
  window.addEventListener('keydown', (e) => {
    if (!(e.ctrlKey || e.altKey || e.metaKey)) {
      if (e.key === 'Escape' && document.getElementById('clickpath-root')) send('stop');
      return;
    }
    const parts = [];
    if (e.ctrlKey) parts.push('Ctrl');
    if (e.altKey) parts.push('Alt');
    if (e.shiftKey) parts.push('Shift');
    if (e.metaKey) parts.push('Meta');
    if (['Control', 'Alt', 'Shift', 'Meta'].includes(e.key)) return;
    parts.push(e.key.length === 1 ? e.key.toUpperCase() : e.key);
    send('shortcut', parts.join('+'));
  }, true);
  if (!HELP_BUTTON) return;
  const add = () => {
    if (document.getElementById('clickpath-help')) return;
    const b = document.createElement('button');
    b.id = 'clickpath-help';
    b.textContent = '?';
    b.title = 'Start tour';
    Object.assign(b.style, { position: 'fixed', right: '20px', bottom: '20px', width: '40px', height: '40px',
      borderRadius: '50%', border: 'none', zIndex: 2147482999, cursor: 'pointer', fontSize: '18px',
      background: 'var(--clickpath-primary, #0066B3)', color: '#fff' });
    b.addEventListener('click', () => send('help'));
    document.body.appendChild(b);
  };
  if (document.body) add(); else document.addEventListener('DOMContentLoaded', add);
})();`

// Controller is the engine surface the page talks to.
type Controller interface {
	Dispatch(ctx context.Context, cmd domain.Command) domain.Response
	Help(ctx context.Context) error
	TourForShortcut(shortcut string) (string, bool)
	HandleNavigation(ctx context.Context) (string, error)
}

// BindOption configures Bind.
type BindOption func(*binder)

// WithHelpButton shows the floating help button.
func WithHelpButton(enabled bool) BindOption {
	return func(b *binder) {
		b.helpButton = enabled
	}
}

// WithBindLogger sets the logger for page callbacks.
func WithBindLogger(logger *slog.Logger) BindOption {
	return func(b *binder) {
		b.logger = logger
	}
}

type binder struct {
	ctx        context.Context
	ctrl       Controller
	helpButton bool
	logger     *slog.Logger
	sync       *sessionSync
}

// Bind routes page actions and main-frame navigations to ctrl until ctx is
// done. Callbacks run on the driver's goroutine, so each action is handed
// to a new goroutine before it touches the page.
func Bind(ctx context.Context, page playwright.Page, ctrl Controller, opts ...BindOption) error {
	b := &binder{ctx: ctx, ctrl: ctrl, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(b)
	}

	if err := page.ExposeFunction(BindingName, func(args ...any) any {
		action, arg := actionArgs(args)
		go b.handle(action, arg)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to expose binding: %w", err)
	}

	script := fmt.Sprintf("const HELP_BUTTON = %t;\n%s", b.helpButton, initScript)
	if err := page.AddInitScript(playwright.Script{Content: &script}); err != nil {
		return fmt.Errorf("failed to add init script: %w", err)
	}

	main := page.MainFrame()
	page.OnFrameNavigated(func(frame playwright.Frame) {
		if frame != main {
			return
		}
		go b.navigated(frame.URL())
	})
	return nil
}

func actionArgs(args []any) (string, string) {
	var action, arg string
	if len(args) > 0 {
		action, _ = args[0].(string)
	}
	if len(args) > 1 {
		arg, _ = args[1].(string)
	}
	return action, arg
}

func (b *binder) handle(action, arg string) {
	if b.ctx.Err() != nil {
		return
	}
	if err := route(b.ctx, b.ctrl, action, arg); err != nil {
		b.logger.Debug("page action failed", "action", action, "error", err)
	}
}

func (b *binder) navigated(url string) {
	if b.ctx.Err() != nil {
		return
	}
	if b.sync != nil {
		refreshed, err := b.sync.run(b.ctx)
		if err != nil {
			b.logger.Warn("failed to sync browser session", "url", url, "error", err)
		} else if refreshed {
			b.logger.Debug("browser session changed, catalog refreshed", "url", url)
		}
	}
	id, err := b.ctrl.HandleNavigation(b.ctx)
	if err != nil {
		b.logger.Warn("failed to handle navigation", "url", url, "error", err)
		return
	}
	if id != "" {
		b.logger.Info("tour auto-started", "tour", id, "url", url)
	}
}

// route maps a page action to an engine call.
func route(ctx context.Context, ctrl Controller, action, arg string) error {
	var cmd domain.Command
	switch action {
	case ActionNext:
		cmd.Type = domain.CmdNextStep
	case ActionPrev:
		cmd.Type = domain.CmdPrevStep
	case ActionSkip:
		cmd.Type = domain.CmdSkipTour
	case ActionStop:
		cmd.Type = domain.CmdStopTour
	case ActionHelp:
		return ctrl.Help(ctx)
	case ActionShortcut:
		id, ok := ctrl.TourForShortcut(arg)
		if !ok {
			return nil
		}
		cmd = domain.Command{Type: domain.CmdStartTour, TourID: id}
	default:
		return fmt.Errorf("unknown page action %q", action)
	}

	if resp := ctrl.Dispatch(ctx, cmd); !resp.Success {
		return fmt.Errorf("%s: %s", cmd.Type, resp.Error)
	}
	return nil
}
