package view

import (
	"math"
	"testing"
)

func TestZoomSteps(t *testing.T) {
	v := New()
	if v.Zoom() != 1.0 {
		t.Fatalf("initial zoom = %g, want 1.0", v.Zoom())
	}

	v.ZoomIn()
	if v.Zoom() != DefaultZoomStep {
		t.Errorf("after ZoomIn zoom = %g, want %g", v.Zoom(), DefaultZoomStep)
	}
	v.ZoomOut()
	if math.Abs(v.Zoom()-1.0) > 1e-12 {
		t.Errorf("after ZoomOut zoom = %g, want 1.0", v.Zoom())
	}
}

func TestZoomClamp(t *testing.T) {
	v := New(WithZoomRange(0.5, 4))
	v.SetZoom(100)
	if v.Zoom() != 4 {
		t.Errorf("zoom = %g, want clamped 4", v.Zoom())
	}
	v.SetZoom(0.001)
	if v.Zoom() != 0.5 {
		t.Errorf("zoom = %g, want clamped 0.5", v.Zoom())
	}
	for i := 0; i < 20; i++ {
		v.ZoomIn()
	}
	if v.Zoom() != 4 {
		t.Errorf("repeated ZoomIn zoom = %g, want 4", v.Zoom())
	}
}

func TestPan(t *testing.T) {
	v := New()
	v.PanBy(10, -5)
	v.PanBy(2, 3)
	x, y := v.Pan()
	if x != 12 || y != -2 {
		t.Errorf("pan = (%g, %g), want (12, -2)", x, y)
	}
	v.Reset()
	x, y = v.Pan()
	if x != 0 || y != 0 || v.Zoom() != 1 {
		t.Error("Reset did not restore defaults")
	}
}

func TestZoomAtKeepsAnchorStationary(t *testing.T) {
	v := New()
	v.SetPan(10, 20)

	ix, iy := v.ScreenToImage(60, 40)
	v.ZoomAt(60, 40, 4)
	if v.Zoom() != 4 {
		t.Fatalf("zoom = %g, want 4", v.Zoom())
	}
	ix2, iy2 := v.ScreenToImage(60, 40)
	if math.Abs(ix2-ix) > 1e-9 || math.Abs(iy2-iy) > 1e-9 {
		t.Errorf("anchor moved from (%g, %g) to (%g, %g)", ix, iy, ix2, iy2)
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	v := New()
	v.SetZoom(2.5)
	v.SetPan(40, 30)

	ix, iy := v.ScreenToImage(100, 50)
	sx, sy := v.ImageToScreen(ix, iy)
	if math.Abs(sx-100) > 1e-9 || math.Abs(sy-50) > 1e-9 {
		t.Errorf("round trip = (%g, %g), want (100, 50)", sx, sy)
	}
	if ix != 100/2.5+40 || iy != 50/2.5+30 {
		t.Errorf("ScreenToImage = (%g, %g)", ix, iy)
	}
}

func TestFit(t *testing.T) {
	v := New()
	// 200x100 image on a 100x100 surface: scale 0.5, vertically centered.
	v.Fit(200, 100, 100, 100)
	if v.Zoom() != 0.5 {
		t.Fatalf("fit zoom = %g, want 0.5", v.Zoom())
	}
	x, y := v.Pan()
	if x != 0 {
		t.Errorf("fit panX = %g, want 0", x)
	}
	if y != -50 {
		t.Errorf("fit panY = %g, want -50 (centered)", y)
	}

	// The image center lands on the surface center.
	sx, sy := v.ImageToScreen(100, 50)
	if sx != 50 || sy != 50 {
		t.Errorf("image center maps to (%g, %g), want (50, 50)", sx, sy)
	}
}

func TestFitIgnoresDegenerateInput(t *testing.T) {
	v := New()
	v.SetZoom(3)
	v.Fit(0, 100, 100, 100)
	if v.Zoom() != 3 {
		t.Error("Fit with zero-width image changed zoom")
	}
}
