package clickpath_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/clickpath"
	"github.com/aretw0/clickpath/pkg/adapters/memory"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dashboardURL = "https://app.example/dashboard"

func dashboardTour() domain.TourDefinition {
	return domain.TourDefinition{
		ID:      "dashboard",
		Version: "1.0.0",
		Name:    "Dashboard",
		Trigger: domain.TourTrigger{Mode: domain.TriggerManual},
		Pages: []domain.TourPage{{
			URLPattern:   dashboardURL,
			URLMatchMode: domain.MatchExact,
			Steps: []domain.TourStep{
				{ID: "one", Title: "One", Content: "1"},
				{ID: "two", Element: "#a", ElementFallback: []string{"#b"}, Title: "Two", Content: "2"},
				{ID: "three", Title: "Three", Content: "3"},
			},
		}},
		Settings: domain.TourSettings{AllowSkip: true},
	}
}

func reportsTour() domain.TourDefinition {
	return domain.TourDefinition{
		ID:      "reports",
		Version: "2",
		Name:    "Reports",
		Trigger: domain.TourTrigger{
			Mode:           domain.TriggerAuto,
			AutoConditions: &domain.AutoConditions{FirstVisit: true},
		},
		Pages: []domain.TourPage{
			{URLPattern: "*/settings", URLMatchMode: domain.MatchGlob, Steps: []domain.TourStep{{ID: "s", Title: "S", Content: "s"}}},
			{URLPattern: "*/dashboard/*", URLMatchMode: domain.MatchGlob, Steps: []domain.TourStep{
				{ID: "r1", Title: "R1", Content: "r1"},
				{ID: "r2", Title: "R2", Content: "r2"},
			}},
		},
	}
}

type harness struct {
	page    *memory.Page
	overlay *memory.Overlay
	store   *memory.Store
	engine  *clickpath.Engine
}

func newHarness(t *testing.T, url string, tours []domain.TourDefinition, opts ...clickpath.Option) *harness {
	t.Helper()
	h := &harness{
		page:    memory.NewPage(url, domain.Size{Width: 1280, Height: 800}),
		overlay: memory.NewOverlay(domain.Size{Width: 300, Height: 150}),
		store:   memory.NewStore(),
	}
	opts = append([]clickpath.Option{
		clickpath.WithStore(h.store),
		clickpath.WithBundled(memory.NewSource(tours...)),
		clickpath.WithClock(func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }),
	}, opts...)
	h.engine = clickpath.New(h.page, h.overlay, opts...)
	require.NoError(t, h.engine.Init(context.Background()))
	return h
}

func TestEngine_ThreeStepScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})

	require.NoError(t, h.engine.StartTour(ctx, "dashboard"))
	st := h.engine.State()
	require.NotNil(t, st)
	assert.Equal(t, 0, st.CurrentPageIndex)
	assert.Equal(t, 0, st.CurrentStepIndex)

	require.NoError(t, h.engine.NextStep(ctx))
	assert.Equal(t, 1, h.engine.State().CurrentStepIndex)
	require.NoError(t, h.engine.NextStep(ctx))
	assert.Equal(t, 2, h.engine.State().CurrentStepIndex)
	require.NoError(t, h.engine.NextStep(ctx))

	assert.Nil(t, h.engine.State(), "completed tours are released")
	assert.False(t, h.overlay.Mounted())

	raw, err := h.store.Get(ctx, domain.CompletionKey("dashboard"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"completed","completedAt":"2026-05-01T00:00:00Z","version":"1.0.0"}`, string(raw))

	ids, err := h.engine.Completions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"dashboard"}, ids)
}

func TestEngine_FallbackTarget(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})
	h.page.AddElement("#b", domain.Rect{Top: 200, Left: 200, Width: 100, Height: 30})

	require.NoError(t, h.engine.StartTour(ctx, "dashboard"))
	require.NoError(t, h.engine.NextStep(ctx))

	view := h.engine.View()
	require.NotNil(t, view)
	require.NotNil(t, view.Highlight)
	assert.Equal(t, domain.Rect{Top: 192, Left: 192, Width: 116, Height: 46}, *view.Highlight)
}

func TestEngine_StartErrors(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "https://app.example/settings/profile", []domain.TourDefinition{dashboardTour()})

	assert.ErrorIs(t, h.engine.StartTour(ctx, "missing"), domain.ErrTourNotFound)
	assert.ErrorIs(t, h.engine.StartTour(ctx, "dashboard"), domain.ErrNoMatchingPage)
	assert.ErrorIs(t, h.engine.StartTour(ctx, ""), domain.ErrNoMatchingPage)
	assert.Nil(t, h.engine.State())
}

func TestEngine_StartWithoutIDPicksMatchingTour(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "https://app.example/dashboard/reports",
		[]domain.TourDefinition{dashboardTour(), reportsTour()})

	require.NoError(t, h.engine.StartTour(ctx, ""))
	st := h.engine.State()
	require.NotNil(t, st)
	assert.Equal(t, "reports", st.TourID)
	assert.Equal(t, 1, st.CurrentPageIndex, "started at the first matching page")
}

func TestEngine_StartReplacesLiveTour(t *testing.T) {
	ctx := context.Background()
	tours := []domain.TourDefinition{dashboardTour(), dashboardTour()}
	tours[1].ID = "dashboard-2"
	h := newHarness(t, dashboardURL, tours)

	require.NoError(t, h.engine.StartTour(ctx, "dashboard"))
	require.NoError(t, h.engine.StartTour(ctx, "dashboard-2"))

	assert.Equal(t, "dashboard-2", h.engine.State().TourID)
	assert.Equal(t, 1, h.overlay.Unmounts(), "the first overlay was removed")
	assert.True(t, h.overlay.Mounted())
}

func TestEngine_NavigationWithoutTour(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})

	assert.ErrorIs(t, h.engine.NextStep(ctx), domain.ErrNoActiveTour)
	assert.ErrorIs(t, h.engine.PrevStep(ctx), domain.ErrNoActiveTour)
	assert.ErrorIs(t, h.engine.SkipTour(ctx), domain.ErrNoActiveTour)
	assert.NoError(t, h.engine.StopTour(ctx))
	assert.NoError(t, h.engine.StopTour(ctx))
}

func TestEngine_SkipMarksCompletion(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})

	require.NoError(t, h.engine.StartTour(ctx, "dashboard"))
	require.NoError(t, h.engine.SkipTour(ctx))
	assert.Nil(t, h.engine.State())

	raw, err := h.store.Get(ctx, domain.CompletionKey("dashboard"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"skipped"`)
}

func TestEngine_StopReportsNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})

	require.NoError(t, h.engine.StartTour(ctx, "dashboard"))
	require.NoError(t, h.engine.StopTour(ctx))

	_, err := h.store.Get(ctx, domain.CompletionKey("dashboard"))
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestEngine_AutoStart(t *testing.T) {
	ctx := context.Background()
	url := "https://app.example/dashboard/reports"

	t.Run("first visit", func(t *testing.T) {
		h := newHarness(t, url, []domain.TourDefinition{dashboardTour(), reportsTour()})
		id, err := h.engine.AutoStart(ctx)
		require.NoError(t, err)
		assert.Equal(t, "reports", id)
	})

	t.Run("already completed", func(t *testing.T) {
		h := newHarness(t, url, []domain.TourDefinition{reportsTour()})
		require.NoError(t, h.store.Set(ctx, domain.CompletionKey("reports"), []byte(`{"status":"completed"}`)))

		id, err := h.engine.AutoStart(ctx)
		require.NoError(t, err)
		assert.Empty(t, id)
		assert.Nil(t, h.engine.State())
	})

	t.Run("reset brings it back", func(t *testing.T) {
		h := newHarness(t, url, []domain.TourDefinition{reportsTour()})
		require.NoError(t, h.store.Set(ctx, domain.CompletionKey("reports"), []byte(`{"status":"skipped"}`)))
		require.NoError(t, h.engine.ResetProgress(ctx, "reports"))

		id, err := h.engine.AutoStart(ctx)
		require.NoError(t, err)
		assert.Equal(t, "reports", id)
	})

	t.Run("without first visit condition", func(t *testing.T) {
		tour := reportsTour()
		tour.Trigger.AutoConditions = nil
		h := newHarness(t, url, []domain.TourDefinition{tour})

		id, err := h.engine.AutoStart(ctx)
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("role gate", func(t *testing.T) {
		tour := reportsTour()
		tour.Trigger.AutoConditions.UserRole = []string{"admin"}

		h := newHarness(t, url, []domain.TourDefinition{tour}, clickpath.WithUserRoles("viewer"))
		id, err := h.engine.AutoStart(ctx)
		require.NoError(t, err)
		assert.Empty(t, id)

		h = newHarness(t, url, []domain.TourDefinition{tour}, clickpath.WithUserRoles("viewer", "admin"))
		id, err = h.engine.AutoStart(ctx)
		require.NoError(t, err)
		assert.Equal(t, "reports", id)
	})

	t.Run("disabled", func(t *testing.T) {
		h := newHarness(t, url, []domain.TourDefinition{reportsTour()},
			clickpath.WithFeatures(domain.Features{EnableAutoStart: false}))
		id, err := h.engine.AutoStart(ctx)
		require.NoError(t, err)
		assert.Empty(t, id)
	})
}

func TestEngine_HandleNavigation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour(), reportsTour()})

	require.NoError(t, h.engine.StartTour(ctx, "dashboard"))
	h.page.Navigate("https://app.example/dashboard/reports")

	id, err := h.engine.HandleNavigation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "reports", id)
	assert.Equal(t, "reports", h.engine.State().TourID)
	assert.Equal(t, 1, h.overlay.Unmounts())
}

func TestEngine_Help(t *testing.T) {
	ctx := context.Background()
	tour := dashboardTour()
	tour.Pages[0].URLPattern = "/settings"
	tour.Pages[0].URLMatchMode = domain.MatchContains
	h := newHarness(t, "https://app.example/settings", []domain.TourDefinition{tour})

	require.NoError(t, h.engine.Help(ctx))
	assert.Equal(t, "dashboard", h.engine.State().TourID)
}

func TestEngine_TourForShortcut(t *testing.T) {
	tour := dashboardTour()
	tour.Trigger.KeyboardShortcut = "Ctrl+Shift+T"
	h := newHarness(t, dashboardURL, []domain.TourDefinition{tour})

	id, ok := h.engine.TourForShortcut("Ctrl+Shift+T")
	assert.True(t, ok)
	assert.Equal(t, "dashboard", id)

	_, ok = h.engine.TourForShortcut("Ctrl+K")
	assert.False(t, ok)
}

func TestEngine_Theme(t *testing.T) {
	ctx := context.Background()

	t.Run("host colors layer over the stored theme", func(t *testing.T) {
		remote := memory.NewSource(dashboardTour())
		remote.Catalog.Colors = &domain.ThemeColors{Primary: "#abcdef"}
		h := newHarness(t, dashboardURL, nil, clickpath.WithRemote(remote))

		th := h.engine.Theme()
		assert.Equal(t, "corporater", th.Name)
		assert.Equal(t, "#abcdef", th.Colors.Primary)
		assert.Equal(t, "#ffffff", th.Colors.Background)
	})

	t.Run("custom colors", func(t *testing.T) {
		h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})
		th, err := h.engine.SetTheme(ctx, map[string]any{"primary": "#000001"})
		require.NoError(t, err)
		assert.Equal(t, "custom", th.Name)
		assert.Equal(t, "#000001", h.engine.Theme().Colors.Primary)

		require.NoError(t, h.engine.StartTour(ctx, "dashboard"))
		assert.Equal(t, "#000001", h.overlay.Colors().Primary)
	})

	t.Run("named", func(t *testing.T) {
		h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})
		th, err := h.engine.SetThemeName(ctx, "dark")
		require.NoError(t, err)
		assert.Equal(t, "#0f172a", th.Colors.Background)

		_, err = h.engine.SetThemeName(ctx, "neon")
		assert.Error(t, err)
	})

	t.Run("tour theme setting", func(t *testing.T) {
		tour := dashboardTour()
		tour.Settings.Theme = "dark"
		h := newHarness(t, dashboardURL, []domain.TourDefinition{tour})

		require.NoError(t, h.engine.StartTour(ctx, "dashboard"))
		assert.Equal(t, "#0f172a", h.overlay.Colors().Background)
	})
}

func TestEngine_RemoteFeatures(t *testing.T) {
	remote := memory.NewSource(reportsTour())
	remote.Catalog.Features = &domain.Features{EnableAutoStart: false, EnableHelpButton: true}
	h := newHarness(t, "https://app.example/dashboard/reports", nil, clickpath.WithRemote(remote))

	assert.False(t, h.engine.Features().EnableAutoStart)
	id, err := h.engine.AutoStart(context.Background())
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestEngine_ProgressSync(t *testing.T) {
	ctx := context.Background()
	sink := memory.NewProgressSink()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()}, clickpath.WithProgressSync(sink))

	require.NoError(t, h.engine.StartTour(ctx, "dashboard"))
	require.NoError(t, h.engine.SkipTour(ctx))

	require.Len(t, sink.Records(), 1)
	assert.Equal(t, domain.ProgressSkipped, sink.Records()[0].Status)
}
