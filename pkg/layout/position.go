// Package layout computes where the tour overlay draws the tooltip and the
// highlight. All functions are pure and work in viewport coordinates.
package layout

import (
	"math"

	"github.com/aretw0/clickpath/pkg/domain"
)

// Margin is the gap between the tooltip and its target, and between the
// tooltip and the viewport edges.
const Margin = 16.0

// Position returns the top-left corner of the tooltip.
//
// Without a target the tooltip is centered in the viewport. With a target it
// is placed on the preferred side (resolving auto first), centered along the
// perpendicular axis, and finally clamped so it stays Margin away from the
// viewport edges. When the tooltip is larger than the viewport the clamp
// favors the top/left edge.
func Position(tooltip domain.Size, target *domain.Rect, preferred domain.Placement, viewport domain.Size) domain.Point {
	var p domain.Point

	if target == nil {
		p = domain.Point{
			Top:  (viewport.Height - tooltip.Height) / 2,
			Left: (viewport.Width - tooltip.Width) / 2,
		}
		return clamp(p, tooltip, viewport)
	}

	t := *target
	switch Resolve(tooltip, t, preferred, viewport) {
	case domain.PlacementTop:
		p.Top = t.Top - tooltip.Height - Margin
		p.Left = t.Left + (t.Width-tooltip.Width)/2
	case domain.PlacementBottom:
		p.Top = t.Bottom() + Margin
		p.Left = t.Left + (t.Width-tooltip.Width)/2
	case domain.PlacementLeft:
		p.Top = t.Top + (t.Height-tooltip.Height)/2
		p.Left = t.Left - tooltip.Width - Margin
	case domain.PlacementRight:
		p.Top = t.Top + (t.Height-tooltip.Height)/2
		p.Left = t.Right() + Margin
	default:
		// Unrecognized placement: below the target, left-aligned.
		p.Top = t.Bottom() + Margin
		p.Left = t.Left
	}

	return clamp(p, tooltip, viewport)
}

// Resolve turns an auto (or empty) placement into a concrete side: the first
// of bottom, top, right, left with room for the tooltip plus Margin, else
// bottom. Explicit placements are returned unchanged.
func Resolve(tooltip domain.Size, target domain.Rect, preferred domain.Placement, viewport domain.Size) domain.Placement {
	if preferred != "" && preferred != domain.PlacementAuto {
		return preferred
	}

	spaceAbove := target.Top
	spaceBelow := viewport.Height - target.Bottom()
	spaceLeft := target.Left
	spaceRight := viewport.Width - target.Right()

	switch {
	case spaceBelow >= tooltip.Height+Margin:
		return domain.PlacementBottom
	case spaceAbove >= tooltip.Height+Margin:
		return domain.PlacementTop
	case spaceRight >= tooltip.Width+Margin:
		return domain.PlacementRight
	case spaceLeft >= tooltip.Width+Margin:
		return domain.PlacementLeft
	default:
		return domain.PlacementBottom
	}
}

// Highlight inflates the target rect by padding on every side.
func Highlight(target domain.Rect, padding float64) domain.Rect {
	return domain.Rect{
		Top:    target.Top - padding,
		Left:   target.Left - padding,
		Width:  target.Width + padding*2,
		Height: target.Height + padding*2,
	}
}

func clamp(p domain.Point, tooltip domain.Size, viewport domain.Size) domain.Point {
	return domain.Point{
		Top:  math.Max(Margin, math.Min(p.Top, viewport.Height-tooltip.Height-Margin)),
		Left: math.Max(Margin, math.Min(p.Left, viewport.Width-tooltip.Width-Margin)),
	}
}
