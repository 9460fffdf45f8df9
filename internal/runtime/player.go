package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/clickpath/internal/logging"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/layout"
	"github.com/aretw0/clickpath/pkg/ports"
	"github.com/google/uuid"
)

// Player drives one tour on one page: it owns the Machine and renders every
// cursor change through the Overlay. A Player is single-use; the coordinator
// creates a new one for every start and serializes calls to it.
type Player struct {
	machine *Machine
	tour    *domain.TourDefinition
	page    ports.Page
	overlay ports.Overlay
	sink    ports.ProgressSink
	colors  domain.ThemeColors
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	clock   func() time.Time

	sessionID string
	mounted   bool
	view      *domain.StepView
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Player) {
		p.hooks = hooks
	}
}

// WithProgressSink sets where terminal progress is reported.
func WithProgressSink(sink ports.ProgressSink) Option {
	return func(p *Player) {
		p.sink = sink
	}
}

// WithColors sets the palette the overlay is mounted with.
func WithColors(colors domain.ThemeColors) Option {
	return func(p *Player) {
		p.colors = colors
	}
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(p *Player) {
		p.clock = clock
	}
}

// WithSessionID fixes the session ID instead of generating one.
func WithSessionID(id string) Option {
	return func(p *Player) {
		p.sessionID = id
	}
}

// NewPlayer creates an idle player for tour.
func NewPlayer(tour *domain.TourDefinition, page ports.Page, overlay ports.Overlay, opts ...Option) *Player {
	p := &Player{
		tour:    tour,
		page:    page,
		overlay: overlay,
		logger:  logging.NewNop(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sessionID == "" {
		p.sessionID = uuid.NewString()
	}
	p.logger = p.logger.With("tour", tour.ID, "session", p.sessionID)
	p.machine = NewMachine(tour, p.sessionID)
	return p
}

// Tour returns the definition being played.
func (p *Player) Tour() *domain.TourDefinition {
	return p.tour
}

// State returns a copy of the runtime state.
func (p *Player) State() domain.TourState {
	return p.machine.State()
}

// Active reports whether the tour is showing steps.
func (p *Player) Active() bool {
	return p.machine.Status() == domain.StatusActive
}

// View returns the last rendered step, or nil before the first render.
func (p *Player) View() *domain.StepView {
	if p.view == nil {
		return nil
	}
	v := *p.view
	return &v
}

// Start mounts the overlay and shows step 0 of the page at pageIndex.
// The caller is expected to have matched the page against the current URL.
func (p *Player) Start(ctx context.Context, pageIndex int) error {
	if err := p.machine.Start(pageIndex, p.clock()); err != nil {
		return err
	}

	if err := p.overlay.Mount(ctx, p.colors); err != nil {
		p.machine.Stop()
		return fmt.Errorf("failed to mount overlay: %w", err)
	}
	p.mounted = true

	p.logger.Info("tour started", "name", p.tour.Name, "page", pageIndex)
	p.emitTour(ctx, p.hooks.OnTourStart)

	return p.showStep(ctx)
}

// Next advances one step, completing the tour on the last step.
func (p *Player) Next(ctx context.Context) error {
	switch p.machine.Next() {
	case TransitionNone:
		return domain.ErrNoActiveTour
	case TransitionCompleted:
		return p.finish(ctx)
	}
	return p.showStep(ctx)
}

// Prev goes back one step. At step 0 it does nothing.
func (p *Player) Prev(ctx context.Context) error {
	if p.machine.Status() != domain.StatusActive {
		return domain.ErrNoActiveTour
	}
	if !p.machine.Prev() {
		return nil
	}
	return p.showStep(ctx)
}

// Skip ends the tour as skipped from any step.
func (p *Player) Skip(ctx context.Context) error {
	if !p.machine.Skip() {
		return domain.ErrNoActiveTour
	}
	p.logger.Info("tour skipped")
	return p.finish(ctx)
}

// Stop removes the overlay without reporting an outcome. It can be called
// in any state and any number of times.
func (p *Player) Stop(ctx context.Context) error {
	if p.machine.Stop() {
		p.logger.Debug("tour stopped")
		p.emitTour(ctx, p.hooks.OnTourEnd)
	}
	return p.teardown(ctx)
}

// showStep renders the step under the cursor. Steps whose condition does not
// hold are skipped by advancing, whichever way the user moved.
func (p *Player) showStep(ctx context.Context) error {
	for {
		step := p.machine.Step()
		if step == nil {
			return nil
		}

		reason, err := p.unmet(ctx, step.Condition)
		if err != nil {
			return err
		}
		if reason == "" {
			return p.render(ctx, step)
		}

		p.logger.Debug("step not applicable", "step", step.ID, "reason", reason)
		p.emitStep(ctx, p.hooks.OnStepSkip, step, false, reason)

		if p.machine.Next() == TransitionCompleted {
			return p.finish(ctx)
		}
	}
}

// unmet returns the skip reason of a condition, or "" when it holds.
func (p *Player) unmet(ctx context.Context, cond *domain.StepCondition) (string, error) {
	if cond == nil {
		return "", nil
	}
	if cond.ElementExists != "" {
		rect, err := p.page.Query(ctx, cond.ElementExists)
		if err != nil {
			return "", fmt.Errorf("failed to evaluate condition %q: %w", cond.ElementExists, err)
		}
		if rect == nil {
			return domain.SkipReasonMissing, nil
		}
	}
	if cond.ElementVisible != "" {
		rect, err := p.page.Query(ctx, cond.ElementVisible)
		if err != nil {
			return "", fmt.Errorf("failed to evaluate condition %q: %w", cond.ElementVisible, err)
		}
		if rect == nil || rect.Empty() {
			return domain.SkipReasonInvisible, nil
		}
	}
	return "", nil
}

// resolveTarget tries the primary selector then the fallbacks in order.
// No match is not an error: the step is shown without a target.
func (p *Player) resolveTarget(ctx context.Context, step *domain.TourStep) (string, *domain.Rect, error) {
	for _, sel := range step.Selectors() {
		rect, err := p.page.Query(ctx, sel)
		if err != nil {
			return "", nil, fmt.Errorf("failed to query %q: %w", sel, err)
		}
		if rect != nil {
			return sel, rect, nil
		}
	}
	return "", nil, nil
}

func (p *Player) render(ctx context.Context, step *domain.TourStep) error {
	settings := p.tour.Settings

	selector, target, err := p.resolveTarget(ctx, step)
	if err != nil {
		return err
	}
	if target == nil && len(step.Selectors()) > 0 {
		p.logger.Debug("no target resolved", "step", step.ID)
	}

	if target != nil && settings.Scroll() != domain.ScrollNone {
		if err := p.page.ScrollIntoView(ctx, selector, settings.Scroll()); err != nil {
			return fmt.Errorf("failed to scroll to %q: %w", selector, err)
		}
		// Geometry changes once the element is scrolled.
		if rect, err := p.page.Query(ctx, selector); err == nil && rect != nil {
			target = rect
		}
	}

	view := p.buildView(step, target)
	size, err := p.overlay.Show(ctx, view)
	if err != nil {
		return fmt.Errorf("failed to render step %s: %w", step.ID, err)
	}

	viewport, err := p.page.Viewport(ctx)
	if err != nil {
		return fmt.Errorf("failed to read viewport: %w", err)
	}

	pos := layout.Position(size, target, step.Position, viewport)
	if err := p.overlay.Place(ctx, pos); err != nil {
		return fmt.Errorf("failed to place tooltip: %w", err)
	}

	p.view = &view
	p.machine.Touch(p.clock())
	p.emitStep(ctx, p.hooks.OnStepShow, step, target != nil, "")
	return nil
}

func (p *Player) buildView(step *domain.TourStep, target *domain.Rect) domain.StepView {
	settings := p.tour.Settings
	_, idx := p.machine.Cursor()
	total := p.machine.StepCount()

	view := domain.StepView{
		TourID:         p.tour.ID,
		StepID:         step.ID,
		Title:          step.Title,
		Content:        step.Content,
		Indicator:      fmt.Sprintf("Step %d of %d", idx+1, total),
		Index:          idx,
		Total:          total,
		ShowBack:       idx > 0,
		ShowNext:       true,
		ShowSkip:       settings.AllowSkip,
		ShowProgress:   settings.ShowProgress,
		BackLabel:      domain.LabelBack,
		NextLabel:      domain.LabelNext,
		SkipLabel:      domain.LabelSkip,
		HighlightStyle: step.HighlightStyle,
		OverlayOpacity: settings.OverlayOpacity,
	}
	if idx == total-1 {
		view.NextLabel = domain.LabelFinish
	}
	if view.OverlayOpacity == 0 {
		view.OverlayOpacity = domain.DefaultOverlayOpacity
	}
	if step.Interaction != nil {
		view.ClickThrough = step.Interaction.ClickThrough
	}
	if target != nil {
		h := layout.Highlight(*target, settings.Padding())
		view.Highlight = &h
	}

	if b := step.Buttons; b != nil {
		applyButton(b.Back, &view.ShowBack, &view.BackLabel)
		applyButton(b.Next, &view.ShowNext, &view.NextLabel)
		applyButton(b.Skip, &view.ShowSkip, &view.SkipLabel)
	}
	return view
}

func applyButton(cfg *domain.ButtonConfig, show *bool, label *string) {
	if cfg == nil {
		return
	}
	if cfg.Show != nil {
		*show = *cfg.Show
	}
	if cfg.Label != "" {
		*label = cfg.Label
	}
}

// finish reports the terminal status and tears the overlay down.
// A failing progress sink is logged and never blocks teardown.
func (p *Player) finish(ctx context.Context) error {
	progress := p.machine.Progress(p.clock())
	if p.sink != nil {
		if err := p.sink.Report(ctx, progress); err != nil {
			p.logger.Warn("failed to report progress", "status", progress.Status, "error", err)
		}
	}
	p.logger.Info("tour finished", "status", p.machine.Status())
	p.emitTour(ctx, p.hooks.OnTourEnd)
	return p.teardown(ctx)
}

func (p *Player) teardown(ctx context.Context) error {
	if !p.mounted {
		return nil
	}
	p.mounted = false
	if err := p.overlay.Unmount(ctx); err != nil {
		return fmt.Errorf("failed to unmount overlay: %w", err)
	}
	return nil
}

func (p *Player) emitTour(ctx context.Context, hook func(context.Context, *domain.TourEvent)) {
	if hook == nil {
		return
	}
	typ := domain.EventTourEnd
	if p.machine.Status() == domain.StatusActive {
		typ = domain.EventTourStart
	}
	hook(ctx, &domain.TourEvent{
		EventBase: domain.EventBase{Timestamp: p.clock(), Type: typ, SessionID: p.sessionID},
		TourID:    p.tour.ID,
		Status:    p.machine.Status(),
	})
}

func (p *Player) emitStep(ctx context.Context, hook func(context.Context, *domain.StepEvent), step *domain.TourStep, hasTarget bool, reason string) {
	if hook == nil {
		return
	}
	typ := domain.EventStepShow
	if reason != "" {
		typ = domain.EventStepSkip
	}
	page, idx := p.machine.Cursor()
	hook(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: p.clock(), Type: typ, SessionID: p.sessionID},
		TourID:    p.tour.ID,
		StepID:    step.ID,
		PageIndex: page,
		StepIndex: idx,
		HasTarget: hasTarget,
		Reason:    reason,
	})
}
