// Package viewport holds the pan/zoom transform of the rendered map.
//
// The transform is presentational only: it maps layout coordinates to screen
// coordinates as screen = layout*K + (X, Y) and never feeds back into the
// stakeholder data or the layout.
package viewport

import (
	"fmt"
	"math"
	"time"
)

// Zoom bounds and fit parameters.
const (
	MinScale     = 0.5
	MaxScale     = 2.0
	FitScale     = 0.8
	FitDuration  = 750 * time.Millisecond
	defaultScale = 1.0
)

// Rect is an axis-aligned box in layout coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the box.
func (r Rect) Center() (x, y float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Union returns the smallest box containing r and o. A zero-sized r is
// treated as empty.
func (r Rect) Union(o Rect) Rect {
	if r.Width == 0 && r.Height == 0 && r.X == 0 && r.Y == 0 {
		return o
	}
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.X+r.Width, o.X+o.Width)
	y1 := math.Max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Transform is a translate-then-scale affine transform.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = Transform{K: defaultScale}

// Apply maps a layout point to screen coordinates.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen point back to layout coordinates.
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.X) / t.K, (y - t.Y) / t.K
}

// SVG returns the transform as an SVG transform attribute value.
func (t Transform) SVG() string {
	return fmt.Sprintf("translate(%s,%s) scale(%s)", num(t.X), num(t.Y), num(t.K))
}

func (t Transform) String() string { return t.SVG() }

// Clamp returns t with K limited to [MinScale, MaxScale].
func (t Transform) Clamp() Transform {
	if t.K == 0 || math.IsNaN(t.K) {
		t.K = defaultScale
	}
	t.K = math.Max(MinScale, math.Min(MaxScale, t.K))
	return t
}

func num(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

// =============================================================================
// Controller
// =============================================================================

// Controller owns the current transform and the size of the viewport.
type Controller struct {
	width, height float64
	current       Transform
}

// NewController returns a controller for a width×height viewport, starting
// at the identity transform.
func NewController(width, height float64) *Controller {
	return &Controller{width: width, height: height, current: Identity}
}

// Size returns the viewport dimensions.
func (c *Controller) Size() (width, height float64) { return c.width, c.height }

// Resize changes the viewport dimensions. The transform is kept.
func (c *Controller) Resize(width, height float64) {
	c.width, c.height = width, height
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform { return c.current }

// Set replaces the transform, as a pan or zoom gesture does. The scale is
// clamped to [MinScale, MaxScale].
func (c *Controller) Set(t Transform) Transform {
	c.current = t.Clamp()
	return c.current
}

// Pan moves the transform by (dx, dy) screen units.
func (c *Controller) Pan(dx, dy float64) Transform {
	t := c.current
	t.X += dx
	t.Y += dy
	return c.Set(t)
}

// ZoomAt multiplies the scale by factor, keeping the screen point (px, py)
// fixed. The scale is clamped.
func (c *Controller) ZoomAt(factor, px, py float64) Transform {
	lx, ly := c.current.Invert(px, py)
	k := Transform{K: c.current.K * factor}.Clamp().K
	return c.Set(Transform{X: px - lx*k, Y: py - ly*k, K: k})
}

// FitToBounds centers bbox in the viewport at [FitScale] and returns the
// animation from the previous transform. The controller holds the target
// transform immediately.
func (c *Controller) FitToBounds(bbox Rect) Animation {
	from := c.current
	to := Fit(bbox, c.width, c.height)
	c.current = to
	return Animation{From: from, To: to, Duration: FitDuration}
}

// Fit returns the transform that centers bbox in a width×height viewport at
// [FitScale].
func Fit(bbox Rect, width, height float64) Transform {
	k := FitScale
	return Transform{
		X: (width-bbox.Width*k)/2 - bbox.X*k,
		Y: (height-bbox.Height*k)/2 - bbox.Y*k,
		K: k,
	}.Clamp()
}

// =============================================================================
// Animation
// =============================================================================

// Animation describes a timed transition between two transforms.
type Animation struct {
	From     Transform     `json:"from"`
	To       Transform     `json:"to"`
	Duration time.Duration `json:"duration"`
}

// At returns the transform at progress t in [0, 1] with cubic in-out easing.
func (a Animation) At(t float64) Transform {
	e := easeCubicInOut(math.Max(0, math.Min(1, t)))
	return Transform{
		X: lerp(a.From.X, a.To.X, e),
		Y: lerp(a.From.Y, a.To.Y, e),
		K: lerp(a.From.K, a.To.K, e),
	}
}

// Frames samples the animation at the given frame rate, including both ends.
func (a Animation) Frames(fps int) []Transform {
	n := int(a.Duration.Seconds() * float64(fps))
	if n < 1 {
		return []Transform{a.To}
	}
	out := make([]Transform, n+1)
	for i := 0; i <= n; i++ {
		out[i] = a.At(float64(i) / float64(n))
	}
	return out
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
