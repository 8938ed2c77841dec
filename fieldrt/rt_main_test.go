package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/pointfield"
	"github.com/gekko3d/pointfield/fieldrt/rt/config"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePointer(t *testing.T) {
	p, err := parsePointer("0.5, -0.25")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{0.5, -0.25}, p)

	_, err = parsePointer("0.5")
	assert.Error(t, err)
	_, err = parsePointer("a,1")
	assert.Error(t, err)
}

func TestRenderSnapshot(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Window.Width, cfg.Window.Height = 320, 200

	path := filepath.Join(t.TempDir(), "snap.png")
	require.NoError(t, renderSnapshot(cfg, mgl32.Vec2{0, 0}, path, pointfield.NewNopLogger()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}
