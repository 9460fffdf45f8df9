package layout_test

import (
	"testing"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/layout"
	"github.com/stretchr/testify/assert"
)

var (
	viewport = domain.Size{Width: 1280, Height: 800}
	tooltip  = domain.Size{Width: 300, Height: 150}
)

func TestPosition_NoTargetCenters(t *testing.T) {
	p := layout.Position(tooltip, nil, domain.PlacementAuto, viewport)
	assert.Equal(t, domain.Point{Top: 325, Left: 490}, p)
}

func TestPosition_ExplicitSides(t *testing.T) {
	target := &domain.Rect{Top: 300, Left: 500, Width: 200, Height: 100}

	tests := []struct {
		placement domain.Placement
		want      domain.Point
	}{
		{domain.PlacementBottom, domain.Point{Top: 416, Left: 450}},
		{domain.PlacementTop, domain.Point{Top: 134, Left: 450}},
		{domain.PlacementLeft, domain.Point{Top: 275, Left: 184}},
		{domain.PlacementRight, domain.Point{Top: 275, Left: 716}},
		{domain.Placement("diagonal"), domain.Point{Top: 416, Left: 500}},
	}

	for _, tt := range tests {
		t.Run(string(tt.placement), func(t *testing.T) {
			assert.Equal(t, tt.want, layout.Position(tooltip, target, tt.placement, viewport))
		})
	}
}

func TestResolve_AutoOrder(t *testing.T) {
	tests := []struct {
		name   string
		target domain.Rect
		want   domain.Placement
	}{
		{"room below", domain.Rect{Top: 100, Left: 500, Width: 100, Height: 40}, domain.PlacementBottom},
		{"only room above", domain.Rect{Top: 600, Left: 500, Width: 100, Height: 100}, domain.PlacementTop},
		{"only room right", domain.Rect{Top: 50, Left: 100, Width: 100, Height: 700}, domain.PlacementRight},
		{"only room left", domain.Rect{Top: 50, Left: 800, Width: 400, Height: 700}, domain.PlacementLeft},
		{"no room anywhere", domain.Rect{Top: 20, Left: 20, Width: 1240, Height: 760}, domain.PlacementBottom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, layout.Resolve(tooltip, tt.target, domain.PlacementAuto, viewport))
			assert.Equal(t, tt.want, layout.Resolve(tooltip, tt.target, "", viewport))
		})
	}

	assert.Equal(t, domain.PlacementLeft,
		layout.Resolve(tooltip, domain.Rect{Top: 100}, domain.PlacementLeft, viewport))
}

func TestPosition_ClampsIntoViewport(t *testing.T) {
	// Target in the top-left corner with a preferred top placement would go off-screen.
	target := &domain.Rect{Top: 0, Left: 0, Width: 20, Height: 20}
	p := layout.Position(tooltip, target, domain.PlacementTop, viewport)
	assert.Equal(t, domain.Point{Top: layout.Margin, Left: layout.Margin}, p)

	// Target in the bottom-right corner placed to the right.
	target = &domain.Rect{Top: 780, Left: 1260, Width: 20, Height: 20}
	p = layout.Position(tooltip, target, domain.PlacementRight, viewport)
	assert.Equal(t, domain.Point{Top: 800 - 150 - layout.Margin, Left: 1280 - 300 - layout.Margin}, p)
}

func TestPosition_ContainedProperty(t *testing.T) {
	placements := []domain.Placement{
		domain.PlacementAuto, domain.PlacementTop, domain.PlacementBottom,
		domain.PlacementLeft, domain.PlacementRight, "",
	}
	tooltips := []domain.Size{{Width: 10, Height: 10}, {Width: 300, Height: 150}, {Width: 1248, Height: 768}}
	targets := []*domain.Rect{nil}
	for top := -200.0; top <= 1000; top += 150 {
		for left := -200.0; left <= 1500; left += 170 {
			targets = append(targets, &domain.Rect{Top: top, Left: left, Width: 120, Height: 60})
		}
	}

	for _, tip := range tooltips {
		for _, target := range targets {
			for _, pl := range placements {
				p := layout.Position(tip, target, pl, viewport)
				assert.GreaterOrEqual(t, p.Left, layout.Margin)
				assert.GreaterOrEqual(t, p.Top, layout.Margin)
				assert.LessOrEqual(t, p.Left+tip.Width, viewport.Width-layout.Margin)
				assert.LessOrEqual(t, p.Top+tip.Height, viewport.Height-layout.Margin)
			}
		}
	}
}

func TestHighlight(t *testing.T) {
	got := layout.Highlight(domain.Rect{Top: 10, Left: 20, Width: 30, Height: 40}, 8)
	assert.Equal(t, domain.Rect{Top: 2, Left: 12, Width: 46, Height: 56}, got)
}
