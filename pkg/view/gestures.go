package view

import "math"

// Wheel zoom sensitivity: dz = -deltaY / wheelDivisor.
const wheelDivisor = 1000

// Pinch zoom sensitivity: dz = Δdistance / pinchDivisor.
const pinchDivisor = 400

// WheelEvent is a normalized wheel gesture.
type WheelEvent struct {
	Pos    Point // pointer position in viewport coordinates
	DeltaY float64
	Ctrl   bool
	Meta   bool
}

// Touch is one active touch point in viewport coordinates.
type Touch struct {
	Pos Point
}

// Controller interprets pointer, wheel, and touch gestures into
// camera mutations. Every handled gesture ends in a camera
// invalidation, which fires the redraw hook; unhandled wheel events
// are left to native scrolling (the host's scroll event calls Scrolled).
//
// Controller is single-threaded by design, mirroring the one-UI-thread
// model of the host environment. It holds cross-event gesture state
// (last pinch distance, pan origin) and nothing else.
type Controller struct {
	cam      *Camera
	onRedraw func()

	lastPinchDist float64 // 0 when no pinch in progress

	panning    bool
	panStart   Point
	panScroll0 Point
}

// NewController wires a controller to a camera. onRedraw may be nil;
// when set it is called after every gesture that changed the camera.
func NewController(cam *Camera, onRedraw func()) *Controller {
	return &Controller{cam: cam, onRedraw: onRedraw}
}

// Wheel handles a wheel event. A ctrl/meta-modified wheel, or one
// whose vertical delta is fractional (trackpad pinch heuristic), is a
// zoom gesture anchored at the pointer. Anything else is native
// scrolling and is reported unhandled.
func (g *Controller) Wheel(e WheelEvent) bool {
	fractional := e.DeltaY != math.Trunc(e.DeltaY)
	if !e.Ctrl && !e.Meta && !fractional {
		return false
	}
	dz := -e.DeltaY / wheelDivisor
	g.cam.ZoomAround(g.cam.Zoom()+dz, e.Pos)
	g.redraw()
	return true
}

// TouchStart begins pinch tracking when exactly two touches are down.
func (g *Controller) TouchStart(touches []Touch) {
	if len(touches) == 2 {
		g.lastPinchDist = dist(touches[0].Pos, touches[1].Pos)
	}
}

// TouchMove continues a pinch: zoom delta is proportional to the
// change in inter-finger distance, anchored at the touch midpoint.
// Non-pinch touch movement is ignored.
func (g *Controller) TouchMove(touches []Touch) {
	if len(touches) != 2 || g.lastPinchDist == 0 {
		return
	}
	newDist := dist(touches[0].Pos, touches[1].Pos)
	dz := (newDist - g.lastPinchDist) / pinchDivisor
	mid := Point{
		X: (touches[0].Pos.X + touches[1].Pos.X) / 2,
		Y: (touches[0].Pos.Y + touches[1].Pos.Y) / 2,
	}
	g.cam.ZoomAround(g.cam.Zoom()+dz, mid)
	g.lastPinchDist = newDist
	g.redraw()
}

// TouchEnd stops pinch tracking once fewer than two touches remain.
func (g *Controller) TouchEnd(remaining int) {
	if remaining < 2 {
		g.lastPinchDist = 0
	}
}

// PanStart begins a primary-button drag pan. Non-primary buttons are
// ignored (button 0 is primary, matching pointer event numbering).
func (g *Controller) PanStart(button int, pos Point) {
	if button != 0 {
		return
	}
	g.panning = true
	g.panStart = pos
	g.panScroll0 = g.cam.Scroll()
}

// PanMove drags the scroll offsets directly. Panning never changes
// zoom; it manipulates native scroll, and the resulting scroll event
// drives the redraw (Scrolled).
func (g *Controller) PanMove(pos Point) {
	if !g.panning {
		return
	}
	g.cam.SetScroll(Point{
		X: g.panScroll0.X - (pos.X - g.panStart.X),
		Y: g.panScroll0.Y - (pos.Y - g.panStart.Y),
	})
	g.redraw()
}

// PanEnd finishes a drag pan (mouse up or pointer leaving the viewport).
func (g *Controller) PanEnd() { g.panning = false }

// Panning reports whether a drag pan is in progress.
func (g *Controller) Panning() bool { return g.panning }

// Scrolled is called on the host's native scroll event so the camera
// tracks scroll changes the controller did not itself make.
func (g *Controller) Scrolled(scroll Point) {
	g.cam.SetScroll(scroll)
	g.redraw()
}

func (g *Controller) redraw() {
	if g.onRedraw != nil {
		g.onRedraw()
	}
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
