package browser_test

import (
	"context"
	"os"
	"testing"

	"github.com/aretw0/clickpath/pkg/adapters/browser"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `data:text/html,<html><body style="margin:0">` +
	`<div id="menu" style="position:absolute;top:100px;left:50px;width:120px;height:40px">Menu</div>` +
	`</body></html>`

// Needs Chromium; run with CLICKPATH_PLAYWRIGHT=1.
func TestSession_PageAndOverlay(t *testing.T) {
	if os.Getenv("CLICKPATH_PLAYWRIGHT") == "" {
		t.Skip("set CLICKPATH_PLAYWRIGHT=1 to run browser tests")
	}
	ctx := context.Background()

	s, err := browser.Launch(browser.SessionOptions{Headless: true, Width: 800, Height: 600})
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Navigate(fixture))

	page := browser.NewPage(s.Page())
	vp, err := page.Viewport(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Size{Width: 800, Height: 600}, vp)

	rect, err := page.Query(ctx, "#menu")
	require.NoError(t, err)
	require.NotNil(t, rect)
	assert.Equal(t, domain.Rect{Top: 100, Left: 50, Width: 120, Height: 40}, *rect)

	missing, err := page.Query(ctx, "#absent")
	require.NoError(t, err)
	assert.Nil(t, missing)

	invalid, err := page.Query(ctx, "##")
	require.NoError(t, err)
	assert.Nil(t, invalid)

	overlay := browser.NewOverlay(s.Page())
	require.NoError(t, overlay.Mount(ctx, theme.Default().Colors))
	size, err := overlay.Show(ctx, domain.StepView{
		Title: "Menu", Content: "<b>not html</b>", ShowNext: true, NextLabel: "Next",
		Highlight: rect, OverlayOpacity: 0.75,
	})
	require.NoError(t, err)
	assert.Greater(t, size.Width, 0.0)
	assert.Greater(t, size.Height, 0.0)
	require.NoError(t, overlay.Place(ctx, domain.Point{Top: 156, Left: 50}))

	text, err := s.Page().Locator("#clickpath-root .cp-content").TextContent()
	require.NoError(t, err)
	assert.Equal(t, "<b>not html</b>", text)

	require.NoError(t, overlay.Unmount(ctx))
	require.NoError(t, overlay.Unmount(ctx))
	n, err := s.Page().Locator("#clickpath-root").Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}
