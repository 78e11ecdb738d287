package viewport

import (
	"fmt"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestSetClampsScale(t *testing.T) {
	tests := []struct {
		k, want float64
	}{
		{1, 1},
		{0.1, MinScale},
		{5, MaxScale},
		{0.5, 0.5},
		{2, 2},
		{0, 1},
	}
	for _, tt := range tests {
		c := NewController(800, 600)
		if got := c.Set(Transform{X: 3, Y: 4, K: tt.k}); got.K != tt.want || got.X != 3 || got.Y != 4 {
			t.Errorf("Set(K=%v) = %+v, want K=%v", tt.k, got, tt.want)
		}
	}
}

func TestPan(t *testing.T) {
	c := NewController(800, 600)
	c.Pan(10, -5)
	got := c.Pan(2, 2)
	if got != (Transform{X: 12, Y: -3, K: 1}) {
		t.Errorf("Pan() = %+v", got)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	c := NewController(800, 600)
	c.Set(Transform{X: 40, Y: 20, K: 1})

	lx, ly := c.Transform().Invert(300, 200)
	got := c.ZoomAt(1.5, 300, 200)
	sx, sy := got.Apply(lx, ly)
	if !near(sx, 300) || !near(sy, 200) {
		t.Errorf("anchor moved to (%v, %v)", sx, sy)
	}
	if got.K != 1.5 {
		t.Errorf("K = %v, want 1.5", got.K)
	}

	if got := c.ZoomAt(100, 0, 0); got.K != MaxScale {
		t.Errorf("K = %v, want clamp to %v", got.K, MaxScale)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewController(1000, 800)
	bbox := Rect{X: -80, Y: -40, Width: 500, Height: 300}

	anim := c.FitToBounds(bbox)

	if anim.From != Identity {
		t.Errorf("From = %+v, want identity", anim.From)
	}
	if anim.Duration != FitDuration {
		t.Errorf("Duration = %v", anim.Duration)
	}
	if c.Transform() != anim.To {
		t.Errorf("controller did not adopt target transform")
	}

	// The bbox center lands on the viewport center.
	cx, cy := bbox.Center()
	sx, sy := anim.To.Apply(cx, cy)
	if !near(sx, 500) || !near(sy, 400) {
		t.Errorf("bbox center at (%v, %v), want (500, 400)", sx, sy)
	}
	if anim.To.K != FitScale {
		t.Errorf("K = %v, want %v", anim.To.K, FitScale)
	}
}

func TestAnimation(t *testing.T) {
	a := Animation{From: Transform{X: 0, Y: 0, K: 1}, To: Transform{X: 100, Y: 50, K: 0.8}, Duration: FitDuration}

	if got := a.At(0); got != a.From {
		t.Errorf("At(0) = %+v", got)
	}
	if got := a.At(1); !near(got.X, 100) || !near(got.Y, 50) || !near(got.K, 0.8) {
		t.Errorf("At(1) = %+v", got)
	}
	if got := a.At(0.5); !near(got.X, 50) {
		t.Errorf("At(0.5).X = %v, want 50", got.X)
	}
	if got := a.At(0.25); got.X >= 25 {
		t.Errorf("At(0.25).X = %v, want eased below 25", got.X)
	}

	frames := a.Frames(60)
	if len(frames) != 46 {
		t.Errorf("len(Frames(60)) = %d, want 46", len(frames))
	}
	if frames[len(frames)-1] != a.At(1) {
		t.Error("last frame is not the target")
	}
}

func TestRectUnion(t *testing.T) {
	r := Rect{}.Union(Rect{X: 10, Y: 10, Width: 5, Height: 5})
	r = r.Union(Rect{X: -5, Y: 12, Width: 2, Height: 10})
	want := Rect{X: -5, Y: 10, Width: 20, Height: 12}
	if r != want {
		t.Errorf("Union = %+v, want %+v", r, want)
	}
}

func ExampleTransform_SVG() {
	fmt.Println(Transform{X: 120.5, Y: -40, K: 0.8}.SVG())
	// Output: translate(120.5,-40) scale(0.8)
}
