package app

import (
	"math"

	"github.com/gekko3d/pointfield"
	"github.com/gekko3d/pointfield/fieldrt/rt/config"
	"github.com/gekko3d/pointfield/fieldrt/rt/core"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	densityStep  = 0.01
	strengthStep = 5
)

// NormalizePointer maps a cursor position in window coordinates to [-1, 1]
// with y up. A zero-sized window yields the center.
func NormalizePointer(cx, cy float64, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		float32(2*cx/float64(width) - 1),
		float32(1 - 2*cy/float64(height)),
	}
}

// ApplyKey edits t for a tuning shortcut and reports whether key was one.
func ApplyKey(t *pointfield.Tuning, key glfw.Key) bool {
	switch key {
	case glfw.KeyLeftBracket:
		t.Density = stepDensity(t.Density, -densityStep)
	case glfw.KeyRightBracket:
		t.Density = stepDensity(t.Density, densityStep)
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		t.StrengthPx = float32(math.Max(0, float64(t.StrengthPx-strengthStep)))
	case glfw.KeyEqual, glfw.KeyKPAdd:
		t.StrengthPx += strengthStep
	case glfw.KeyR:
		if t.Direction == core.Attract {
			t.Direction = core.Repel
		} else {
			t.Direction = core.Attract
		}
	case glfw.KeyF:
		if t.Falloff == core.FalloffSmooth {
			t.Falloff = core.FalloffLinear
		} else {
			t.Falloff = core.FalloffSmooth
		}
	default:
		return false
	}
	return true
}

// stepDensity rounds to hundredths so repeated steps land on exact stops.
func stepDensity(d, step float64) float64 {
	d = math.Round((d+step)*100) / 100
	return math.Min(config.MaxDensity, math.Max(config.MinDensity, d))
}
