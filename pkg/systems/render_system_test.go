package systems

import (
	"image/color"
	"testing"

	"github.com/decker502/horde/pkg/config"
	"github.com/jakecoffman/cp"
)

func TestCameraWorldToScreen(t *testing.T) {
	cam := NewCamera(config.ViewConfig{Width: 800, Height: 600, UnitPixels: 20})
	cam.Center = cp.Vector{X: 5, Y: 5}

	tests := []struct {
		name   string
		world  cp.Vector
		wx, wy float32
	}{
		{"中心", cp.Vector{X: 5, Y: 5}, 400, 300},
		{"右下", cp.Vector{X: 6, Y: 7}, 420, 340},
		{"左上", cp.Vector{X: 0, Y: 0}, 300, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := cam.WorldToScreen(tt.world)
			if x != tt.wx || y != tt.wy {
				t.Errorf("WorldToScreen(%v) = (%v, %v), want (%v, %v)", tt.world, x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestCameraScreenToWorld(t *testing.T) {
	cam := NewCamera(config.ViewConfig{Width: 800, Height: 600, UnitPixels: 20})
	cam.Center = cp.Vector{X: 5, Y: 5}

	got := cam.ScreenToWorld(420, 340)
	if got != (cp.Vector{X: 6, Y: 7}) {
		t.Errorf("ScreenToWorld(420, 340) = %v, want (6, 7)", got)
	}
	x, y := cam.WorldToScreen(cam.ScreenToWorld(123, 456))
	if x != 123 || y != 456 {
		t.Errorf("round trip = (%v, %v), want (123, 456)", x, y)
	}
}

func TestCameraVisible(t *testing.T) {
	cam := NewCamera(config.ViewConfig{Width: 800, Height: 600, UnitPixels: 20})
	if !cam.Visible(cp.Vector{}, 1) {
		t.Error("center should be visible")
	}
	if cam.Visible(cp.Vector{X: 30}, 1) {
		t.Error("x=30 (600px right of center) should be off screen")
	}
	if !cam.Visible(cp.Vector{X: 20.5}, 1) {
		t.Error("circle overlapping the edge should be visible")
	}
}

func TestWithOpacity(t *testing.T) {
	c := color.RGBA{R: 200, G: 100, B: 0, A: 255}
	if got := WithOpacity(c, 1); got != c {
		t.Errorf("full opacity should keep the color, got %v", got)
	}
	if got := WithOpacity(c, 0); got != (color.RGBA{}) {
		t.Errorf("zero opacity should be transparent, got %v", got)
	}
	if got := WithOpacity(c, 0.5); got != (color.RGBA{R: 100, G: 50, B: 0, A: 128}) {
		t.Errorf("half opacity = %v", got)
	}
}

func TestHUDLine(t *testing.T) {
	if got := HUDLine(12, 7); got != "SCORE 12   $7" {
		t.Errorf("HUDLine = %q", got)
	}
}
