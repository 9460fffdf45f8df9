package domain

// Size is a width/height pair in CSS pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a top/left coordinate in CSS pixels.
type Point struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Rect is a bounding box relative to the viewport.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Empty reports whether the rect has no area (hidden or collapsed element).
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }
