package clickpath_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})
	e := h.engine

	t.Run("ping", func(t *testing.T) {
		resp := e.Dispatch(ctx, domain.Command{Type: domain.CmdPing})
		assert.True(t, resp.Success)
		assert.Equal(t, map[string]any{"installed": true}, resp.Data)
	})

	t.Run("get tours", func(t *testing.T) {
		resp := e.Dispatch(ctx, domain.Command{Type: domain.CmdGetTours})
		require.True(t, resp.Success)
		assert.Equal(t, []domain.TourSummary{{ID: "dashboard", Name: "Dashboard"}}, resp.Data)
	})

	t.Run("navigation", func(t *testing.T) {
		resp := e.Dispatch(ctx, domain.Command{Type: domain.CmdStartTour, TourID: "dashboard"})
		require.True(t, resp.Success, resp.Error)
		st, ok := resp.Data.(*domain.TourState)
		require.True(t, ok)
		assert.Equal(t, "dashboard", st.TourID)

		resp = e.Dispatch(ctx, domain.Command{Type: domain.CmdNextStep})
		require.True(t, resp.Success)
		assert.Equal(t, 1, resp.Data.(*domain.TourState).CurrentStepIndex)

		resp = e.Dispatch(ctx, domain.Command{Type: domain.CmdPrevStep})
		require.True(t, resp.Success)
		assert.Equal(t, 0, resp.Data.(*domain.TourState).CurrentStepIndex)

		resp = e.Dispatch(ctx, domain.Command{Type: domain.CmdGetState})
		require.True(t, resp.Success)
		assert.NotNil(t, resp.Data)

		resp = e.Dispatch(ctx, domain.Command{Type: domain.CmdSkipTour})
		require.True(t, resp.Success)
		assert.Nil(t, resp.Data.(*domain.TourState))

		resp = e.Dispatch(ctx, domain.Command{Type: domain.CmdNextStep})
		assert.False(t, resp.Success)
		assert.Equal(t, domain.ErrNoActiveTour.Error(), resp.Error)
	})

	t.Run("stop without tour", func(t *testing.T) {
		resp := e.Dispatch(ctx, domain.Command{Type: domain.CmdStopTour})
		assert.True(t, resp.Success)
	})

	t.Run("start with empty id on unmatched page", func(t *testing.T) {
		h.page.Navigate("https://app.example/elsewhere")
		defer h.page.Navigate(dashboardURL)

		resp := e.Dispatch(ctx, domain.Command{Type: domain.CmdStartTour})
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "no matching page")
	})

	t.Run("theme", func(t *testing.T) {
		resp := e.Dispatch(ctx, domain.Command{Type: domain.CmdSetTheme, Theme: "dark"})
		require.True(t, resp.Success, resp.Error)
		assert.Equal(t, "dark", resp.Data.(domain.Theme).Name)

		resp = e.Dispatch(ctx, domain.Command{Type: domain.CmdSetTheme, Colors: map[string]any{"primary": "#111111"}})
		require.True(t, resp.Success, resp.Error)

		resp = e.Dispatch(ctx, domain.Command{Type: domain.CmdGetTheme})
		require.True(t, resp.Success)
		th := resp.Data.(domain.Theme)
		assert.Equal(t, "custom", th.Name)
		assert.Equal(t, "#111111", th.Colors.Primary)

		resp = e.Dispatch(ctx, domain.Command{Type: domain.CmdSetTheme, Colors: map[string]any{"nope": "#111111"}})
		assert.False(t, resp.Success)
	})

	t.Run("fetch tours", func(t *testing.T) {
		resp := e.Dispatch(ctx, domain.Command{Type: domain.CmdFetchTours})
		require.True(t, resp.Success)
		assert.Len(t, resp.Data, 1)
	})

	t.Run("reset progress", func(t *testing.T) {
		require.NoError(t, h.store.Set(ctx, domain.CompletionKey("dashboard"), []byte(`{}`)))
		resp := e.Dispatch(ctx, domain.Command{Type: domain.CmdResetProgress, TourID: "dashboard"})
		require.True(t, resp.Success)

		_, err := h.store.Get(ctx, domain.CompletionKey("dashboard"))
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("unknown", func(t *testing.T) {
		resp := e.Dispatch(ctx, domain.Command{Type: "EXPLODE"})
		assert.False(t, resp.Success)
		assert.Equal(t, "unknown command type", resp.Error)
	})
}

func TestDispatch_WireFormat(t *testing.T) {
	var cmd domain.Command
	require.NoError(t, json.Unmarshal([]byte(`{"type":"START_TOUR","tourId":"x"}`), &cmd))
	assert.Equal(t, domain.CmdStartTour, cmd.Type)
	assert.Equal(t, "x", cmd.TourID)

	out, err := json.Marshal(domain.Fail(domain.ErrNoActiveTour))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"`+domain.ErrNoActiveTour.Error()+`"}`, string(out))
}
