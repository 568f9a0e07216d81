// Package view owns the coordinate frames of the diagram viewport.
//
// Three frames are in play: viewport pixels (pointer events), scrolled
// content pixels, and logical coordinates (zoom-normalized, the frame
// all connector geometry lives in). Camera centralizes the conversion
// arithmetic; Controller interprets gestures into camera mutations.
//
// The same math is embedded as a script in interactive SVG output, so
// the in-browser behavior and this package cannot drift apart without
// the tests here noticing.
package view

// Default zoom clamp range.
const (
	DefaultZoomMin = 0.3
	DefaultZoomMax = 2.5
)

// Point is a coordinate pair in whichever frame the context names.
type Point struct {
	X, Y float64
}

// Camera maps between viewport, content, and logical coordinates.
// It owns the current zoom factor and scroll offsets.
//
// Zoom scales the content with origin at the content's top-left;
// scroll offsets are in scaled content pixels, matching native
// scrollLeft/scrollTop semantics.
type Camera struct {
	zoom       float64
	scroll     Point
	origin     Point // content origin in viewport coordinates
	minZoom    float64
	maxZoom    float64
	generation uint64
}

// Option configures a Camera.
type Option func(*Camera)

// WithZoomRange overrides the zoom clamp range.
func WithZoomRange(min, max float64) Option {
	return func(c *Camera) {
		if min > 0 && max >= min {
			c.minZoom, c.maxZoom = min, max
		}
	}
}

// WithOrigin sets the content origin in viewport coordinates.
func WithOrigin(p Point) Option {
	return func(c *Camera) { c.origin = p }
}

// NewCamera creates a camera at zoom 1 with zero scroll.
func NewCamera(opts ...Option) *Camera {
	c := &Camera{
		zoom:    1,
		minZoom: DefaultZoomMin,
		maxZoom: DefaultZoomMax,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Zoom returns the current zoom factor.
func (c *Camera) Zoom() float64 { return c.zoom }

// Scroll returns the current scroll offsets.
func (c *Camera) Scroll() Point { return c.scroll }

// Generation returns the redraw generation. Every mutation bumps it;
// the connector overlay is fully cleared and redrawn per generation,
// never diffed.
func (c *Camera) Generation() uint64 { return c.generation }

// Clamp returns z limited to the camera's zoom range.
func (c *Camera) Clamp(z float64) float64 {
	return max(c.minZoom, min(c.maxZoom, z))
}

// ToLogical converts a viewport point into logical (zoom-normalized,
// scroll-adjusted) coordinates:
//
//	logical = (viewport - origin + scroll) / zoom
func (c *Camera) ToLogical(viewport Point) Point {
	return Point{
		X: (viewport.X - c.origin.X + c.scroll.X) / c.zoom,
		Y: (viewport.Y - c.origin.Y + c.scroll.Y) / c.zoom,
	}
}

// ToViewport converts a logical point back into viewport coordinates
// at the current zoom and scroll.
func (c *Camera) ToViewport(logical Point) Point {
	return Point{
		X: logical.X*c.zoom - c.scroll.X + c.origin.X,
		Y: logical.Y*c.zoom - c.scroll.Y + c.origin.Y,
	}
}

// SetZoom clamps z into range and applies it. Out-of-range requests
// are clamped silently, never reported.
func (c *Camera) SetZoom(z float64) {
	c.zoom = c.Clamp(z)
	c.invalidate()
}

// SetScroll replaces the scroll offsets (pan, or native scroll sync).
func (c *Camera) SetScroll(p Point) {
	c.scroll = p
	c.invalidate()
}

// ScrollBy shifts the scroll offsets by a delta.
func (c *Camera) ScrollBy(dx, dy float64) {
	c.scroll.X += dx
	c.scroll.Y += dy
	c.invalidate()
}

// ZoomAround zooms to z keeping the logical point under the given
// viewport anchor visually fixed:
//
//	newScroll = logical*newZoom - (anchor - origin)
func (c *Camera) ZoomAround(z float64, anchor Point) {
	logical := c.ToLogical(anchor)
	c.zoom = c.Clamp(z)
	c.scroll = Point{
		X: logical.X*c.zoom - (anchor.X - c.origin.X),
		Y: logical.Y*c.zoom - (anchor.Y - c.origin.Y),
	}
	c.invalidate()
}

// Reset restores zoom 1 and keeps scroll, matching the reset-view
// control of the interactive page.
func (c *Camera) Reset() {
	c.zoom = c.Clamp(1)
	c.invalidate()
}

func (c *Camera) invalidate() { c.generation++ }
