package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitConverter_RoundTrip(t *testing.T) {
	tests := []struct {
		name          string
		viewportWidth float32
		sizeWidth     float32
		wantPerPixel  float32
	}{
		{"one to one", 1280, 1280, 1},
		{"zoomed in", 640, 1280, 0.5},
		{"perspective plane", 13.5, 1920, 13.5 / 1920},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUnitConverter(tt.viewportWidth, tt.sizeWidth)
			assert.InDelta(t, tt.wantPerPixel, u.WorldPerPixel, 1e-9)

			for _, v := range []float32{0, 1, 40, 100, 250, 999.5} {
				assert.InDelta(t, v, u.ToWorld(v)/u.WorldPerPixel, 1e-3)
				assert.InDelta(t, v, u.ToPixels(u.ToWorld(v)), 1e-3)
			}
		})
	}
}

func TestUnitConverter_ZeroWidth(t *testing.T) {
	u := NewUnitConverter(100, 0)
	assert.Zero(t, u.WorldPerPixel)
	assert.Zero(t, u.ToWorld(250))
	assert.Zero(t, u.ToPixels(250))
}
