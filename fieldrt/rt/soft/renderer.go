// Package soft rasterizes the displaced point grid on the CPU. It runs the same
// displacement math as the GPU program and backs headless snapshots.
package soft

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/gekko3d/pointfield/fieldrt/rt/core"

	"golang.org/x/image/vector"
)

// ErrNotReady is returned by Render before a grid and a parameter block exist.
var ErrNotReady = errors.New("soft renderer: no grid or parameters uploaded")

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

type Renderer struct {
	Background [4]float32

	grid      *core.PointBuffer
	block     core.ParameterBlock
	hasParams bool
	raster    *vector.Rasterizer // reused per sprite
}

func NewRenderer(background [4]float32) *Renderer {
	return &Renderer{
		Background: background,
		raster:     vector.NewRasterizer(0, 0),
	}
}

// UploadGrid implements pointfield.Program.
func (r *Renderer) UploadGrid(grid *core.PointBuffer) error {
	if grid.Len() == 0 {
		return errors.New("empty point grid")
	}
	r.grid = grid
	return nil
}

// WriteParams implements pointfield.Program.
func (r *Renderer) WriteParams(block core.ParameterBlock) {
	r.block = block
	r.hasParams = true
}

// Render draws the last uploaded grid at the block's resolution.
func (r *Renderer) Render() (*image.RGBA, error) {
	if r.grid == nil || !r.hasParams {
		return nil, ErrNotReady
	}
	w, h := int(r.block.Resolution.X()), int(r.block.Resolution.Y())
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("soft renderer: bad resolution %dx%d", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(toNRGBA(r.Background)), image.Point{}, draw.Src)

	src := image.NewUniform(toNRGBA(r.block.Color))
	fw, fh := float32(w), float32(h)
	for i, p := range r.grid.Positions {
		pos, size := core.Displace(p, r.grid.Sizes[i], &r.block)

		clip := r.block.ViewProj.Mul4x1(pos.Vec4(1))
		if clip.W() <= 0 {
			continue
		}
		x := (clip.X()/clip.W()*0.5 + 0.5) * fw
		y := (0.5 - clip.Y()/clip.W()*0.5) * fh
		r.drawDisc(img, src, x, y, size/2)
	}

	return img, nil
}

// WritePNG renders and encodes the current frame to path.
func (r *Renderer) WritePNG(path string) error {
	img, err := r.Render()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}

// drawDisc composites one sprite over dst. Each point gets its own coverage
// mask so overlapping translucent sprites blend in buffer order.
func (r *Renderer) drawDisc(dst *image.RGBA, src image.Image, x, y, radius float32) {
	if radius <= 0 {
		return
	}
	full := image.Rect(
		int(math.Floor(float64(x-radius))), int(math.Floor(float64(y-radius))),
		int(math.Ceil(float64(x+radius))), int(math.Ceil(float64(y+radius))),
	)
	clipped := full.Intersect(dst.Bounds())
	if clipped.Empty() {
		return
	}

	// The mask covers the whole disc; clipping happens in DrawMask.
	mask := image.NewAlpha(image.Rect(0, 0, full.Dx(), full.Dy()))
	r.raster.Reset(full.Dx(), full.Dy())
	addDisc(r.raster, x-float32(full.Min.X), y-float32(full.Min.Y), radius)
	r.raster.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	draw.DrawMask(dst, clipped, src, image.Point{}, mask, clipped.Min.Sub(full.Min), draw.Over)
}

func addDisc(z *vector.Rasterizer, cx, cy, r float32) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}

func toNRGBA(c [4]float32) color.NRGBA {
	ch := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.NRGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: ch(c[3])}
}
