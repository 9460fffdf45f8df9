package clickpath

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/clickpath/internal/logging"
	"github.com/aretw0/clickpath/internal/runtime"
	"github.com/aretw0/clickpath/pkg/adapters/memory"
	"github.com/aretw0/clickpath/pkg/catalog"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/match"
	"github.com/aretw0/clickpath/pkg/ports"
	"github.com/aretw0/clickpath/pkg/progress"
	"github.com/aretw0/clickpath/pkg/theme"
)

// Engine coordinates tours on one page context. It owns the loaded catalog,
// the active theme and at most one live tour, replaced on every start.
// All methods are safe for concurrent use; calls are serialized.
type Engine struct {
	mu sync.Mutex

	page    ports.Page
	overlay ports.Overlay
	store   ports.Store
	remote  ports.TourSource
	bundled ports.TourSource
	syncer  ports.ProgressSink
	cache   bool
	matcher *match.Matcher
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	clock   func() time.Time
	roles   []string

	loader   *catalog.Loader
	tracker  *progress.Tracker
	catalog  *domain.Catalog
	features domain.Features
	theme    domain.Theme
	player   *runtime.Player
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the key-value store used for caches, theme and completion markers.
func WithStore(store ports.Store) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithRemote sets the primary tour source, usually the host API client.
func WithRemote(src ports.TourSource) Option {
	return func(e *Engine) {
		e.remote = src
	}
}

// WithBundled sets the fallback tour source.
func WithBundled(src ports.TourSource) Option {
	return func(e *Engine) {
		e.bundled = src
	}
}

// WithProgressSync forwards progress records to a remote sink.
func WithProgressSync(sink ports.ProgressSink) Option {
	return func(e *Engine) {
		e.syncer = sink
	}
}

// WithCache enables caching of remote catalogs in the store (default on).
func WithCache(enabled bool) Option {
	return func(e *Engine) {
		e.cache = enabled
	}
}

// WithFeatures sets the feature flags used until the host sends its own.
func WithFeatures(f domain.Features) Option {
	return func(e *Engine) {
		e.features = f
	}
}

// WithUserRoles sets the roles checked against autoConditions.userRole.
func WithUserRoles(roles ...string) Option {
	return func(e *Engine) {
		e.roles = roles
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// New creates an engine drawing on overlay over page. Call Init before use.
func New(page ports.Page, overlay ports.Overlay, opts ...Option) *Engine {
	e := &Engine{
		page:     page,
		overlay:  overlay,
		cache:    true,
		features: domain.Features{EnableAutoStart: true, EnableHelpButton: true},
		theme:    theme.Default(),
		catalog:  &domain.Catalog{Origin: domain.OriginNone},
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	e.matcher = match.New(match.WithLogger(e.logger))

	e.loader = catalog.New(e.store,
		catalog.WithRemote(e.remote),
		catalog.WithBundled(e.bundled),
		catalog.WithCache(e.cache),
		catalog.WithLifecycleHooks(e.hooks),
		catalog.WithLogger(e.logger),
	)

	trackerOpts := []progress.Option{progress.WithLogger(e.logger)}
	if e.syncer != nil {
		trackerOpts = append(trackerOpts, progress.WithRemote(e.syncer))
	}
	e.tracker = progress.NewTracker(e.store, trackerOpts...)
	return e
}

// Init applies the stored theme and loads the catalog.
func (e *Engine) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refresh(ctx)
	return nil
}

// Refresh reloads the catalog through the fallback chain.
func (e *Engine) Refresh(ctx context.Context) []domain.TourDefinition {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refresh(ctx)
	return append([]domain.TourDefinition(nil), e.catalog.Tours...)
}

func (e *Engine) refresh(ctx context.Context) {
	e.catalog = e.loader.Load(ctx)
	if e.catalog.Features != nil {
		e.features = *e.catalog.Features
	}
	e.resolveTheme(ctx)
	e.logger.Info("catalog ready", "origin", e.catalog.Origin, "tours", len(e.catalog.Tours))
}

// resolveTheme layers host colors over the stored theme unless the user
// picked custom colors.
func (e *Engine) resolveTheme(ctx context.Context) {
	t, err := theme.Resolve(ctx, e.store)
	if err != nil {
		e.logger.Warn("failed to resolve theme", "error", err)
	}
	if t.Name != theme.NameCustom && e.catalog.Colors != nil {
		t.Colors = theme.Merge(t.Colors, *e.catalog.Colors)
	}
	e.theme = t
}

// Catalog returns the loaded catalog.
func (e *Engine) Catalog() domain.Catalog {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := *e.catalog
	c.Tours = append([]domain.TourDefinition(nil), e.catalog.Tours...)
	return c
}

// Tours lists the loaded tours.
func (e *Engine) Tours() []domain.TourSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.TourSummary, 0, len(e.catalog.Tours))
	for i := range e.catalog.Tours {
		out = append(out, e.catalog.Tours[i].Summary())
	}
	return out
}

// Features returns the effective feature flags.
func (e *Engine) Features() domain.Features {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.features
}

// Theme returns the active theme.
func (e *Engine) Theme() domain.Theme {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.theme
}

// SetTheme stores partial custom colors and makes them active.
func (e *Engine) SetTheme(ctx context.Context, colors map[string]any) (domain.Theme, error) {
	c, err := theme.Decode(colors)
	if err != nil {
		return domain.Theme{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := theme.SaveColors(ctx, e.store, c); err != nil {
		return domain.Theme{}, err
	}
	e.resolveTheme(ctx)
	return e.theme, nil
}

// SetThemeName selects a built-in theme.
func (e *Engine) SetThemeName(ctx context.Context, name string) (domain.Theme, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := theme.SaveName(ctx, e.store, name); err != nil {
		return domain.Theme{}, err
	}
	e.resolveTheme(ctx)
	return e.theme, nil
}

// State returns a copy of the live tour state, or nil when no tour is live.
func (e *Engine) State() *domain.TourState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state()
}

func (e *Engine) state() *domain.TourState {
	if e.player == nil {
		return nil
	}
	st := e.player.State()
	return &st
}

// View returns the step currently on screen, or nil.
func (e *Engine) View() *domain.StepView {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player == nil {
		return nil
	}
	return e.player.View()
}

// StartTour starts a tour at the first of its pages matching the current URL.
// An empty id picks the first tour with a matching page. Any live tour is
// stopped first.
func (e *Engine) StartTour(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startTour(ctx, id)
}

func (e *Engine) startTour(ctx context.Context, id string) error {
	url, err := e.page.URL(ctx)
	if err != nil {
		return fmt.Errorf("failed to read page url: %w", err)
	}

	var tour *domain.TourDefinition
	if id == "" {
		for i := range e.catalog.Tours {
			if e.matcher.AnyPage(&e.catalog.Tours[i], url) {
				tour = &e.catalog.Tours[i]
				break
			}
		}
		if tour == nil {
			e.logger.Debug("no tour for current page", "url", url)
			return domain.ErrNoMatchingPage
		}
	} else if tour = e.catalog.Find(id); tour == nil {
		return fmt.Errorf("%w: %s", domain.ErrTourNotFound, id)
	}

	pageIndex := e.matcher.FindPage(tour, url)
	if pageIndex < 0 {
		e.logger.Debug("no matching page", "tour", tour.ID, "url", url)
		return fmt.Errorf("%w: %s", domain.ErrNoMatchingPage, tour.ID)
	}

	if err := e.stopTour(ctx); err != nil {
		e.logger.Warn("failed to stop previous tour", "error", err)
	}

	player := runtime.NewPlayer(tour, e.page, e.overlay,
		runtime.WithProgressSink(e.tracker),
		runtime.WithColors(e.colorsFor(tour)),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
		runtime.WithClock(e.clock),
	)
	e.player = player
	if err := player.Start(ctx, pageIndex); err != nil {
		e.player = nil
		_ = player.Stop(ctx)
		return err
	}
	e.release()
	return nil
}

// colorsFor applies a tour's own theme setting when it names a built-in
// theme and the user has not picked custom colors.
func (e *Engine) colorsFor(tour *domain.TourDefinition) domain.ThemeColors {
	if e.theme.Name == theme.NameCustom || tour.Settings.Theme == "" || tour.Settings.Theme == e.theme.Name {
		return e.theme.Colors
	}
	if t, ok := theme.Builtin(tour.Settings.Theme); ok {
		return t.Colors
	}
	return e.theme.Colors
}

// release drops a player that reached a terminal state.
func (e *Engine) release() {
	if e.player != nil && !e.player.Active() {
		e.player = nil
	}
}

// StopTour tears down the live tour, if any.
func (e *Engine) StopTour(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopTour(ctx)
}

func (e *Engine) stopTour(ctx context.Context) error {
	if e.player == nil {
		return nil
	}
	p := e.player
	e.player = nil
	return p.Stop(ctx)
}

// NextStep advances the live tour.
func (e *Engine) NextStep(ctx context.Context) error {
	return e.step(ctx, (*runtime.Player).Next)
}

// PrevStep moves the live tour back one step.
func (e *Engine) PrevStep(ctx context.Context) error {
	return e.step(ctx, (*runtime.Player).Prev)
}

// SkipTour ends the live tour as skipped.
func (e *Engine) SkipTour(ctx context.Context) error {
	return e.step(ctx, (*runtime.Player).Skip)
}

func (e *Engine) step(ctx context.Context, fn func(*runtime.Player, context.Context) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player == nil || !e.player.Active() {
		return domain.ErrNoActiveTour
	}
	err := fn(e.player, ctx)
	e.release()
	return err
}

// AutoStart starts the first auto tour that matches the current page, asks
// for a first visit and has not been completed or skipped yet. It returns
// the started tour ID, or "" when nothing qualified.
func (e *Engine) AutoStart(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.autoStart(ctx)
}

func (e *Engine) autoStart(ctx context.Context) (string, error) {
	if !e.features.EnableAutoStart {
		return "", nil
	}
	url, err := e.page.URL(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read page url: %w", err)
	}

	for i := range e.catalog.Tours {
		tour := &e.catalog.Tours[i]
		if tour.Trigger.Mode != domain.TriggerAuto || !e.matcher.AnyPage(tour, url) {
			continue
		}
		cond := tour.Trigger.AutoConditions
		if cond == nil || !cond.FirstVisit || !e.hasRole(cond.UserRole) {
			continue
		}

		done, err := e.tracker.Completed(ctx, tour.ID)
		if err != nil {
			e.logger.Warn("failed to read completion", "tour", tour.ID, "error", err)
			continue
		}
		if done {
			continue
		}

		e.logger.Info("auto-starting tour", "tour", tour.ID)
		if err := e.startTour(ctx, tour.ID); err != nil {
			return "", err
		}
		return tour.ID, nil
	}
	return "", nil
}

func (e *Engine) hasRole(required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		for _, have := range e.roles {
			if want == have {
				return true
			}
		}
	}
	return false
}

// HandleNavigation reacts to the page URL changing: the live tour is torn
// down and auto start runs again for the new page.
func (e *Engine) HandleNavigation(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.stopTour(ctx); err != nil {
		e.logger.Warn("failed to stop tour on navigation", "error", err)
	}
	return e.autoStart(ctx)
}

// Help starts the tour for the current page, falling back to the first
// loaded tour. It backs the floating help button.
func (e *Engine) Help(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.startTour(ctx, "")
	if errors.Is(err, domain.ErrNoMatchingPage) && len(e.catalog.Tours) > 0 {
		return e.startTour(ctx, e.catalog.Tours[0].ID)
	}
	return err
}

// TourForShortcut returns the ID of the tour bound to a keyboard shortcut.
func (e *Engine) TourForShortcut(shortcut string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.catalog.Tours {
		if t.Trigger.KeyboardShortcut != "" && t.Trigger.KeyboardShortcut == shortcut {
			return t.ID, true
		}
	}
	return "", false
}

// ResetProgress forgets the completion of one tour, or of all when id is empty.
func (e *Engine) ResetProgress(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Reset(ctx, id)
}

// Completions lists the IDs of completed or skipped tours.
func (e *Engine) Completions(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.List(ctx)
}
