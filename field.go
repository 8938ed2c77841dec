package pointfield

import (
	"fmt"

	"github.com/gekko3d/pointfield/fieldrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Program consumes the grid and the per-frame parameter block. The GPU render
// pass and the software rasterizer both implement it.
type Program interface {
	// UploadGrid replaces the point buffers wholesale.
	UploadGrid(grid *core.PointBuffer) error
	// WriteParams takes the block by value; it must not retain a reference the
	// caller could later overwrite.
	WriteParams(block core.ParameterBlock)
}

type State int

const (
	StateUninitialized State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "uninitialized"
}

// Tuning holds the user-facing effect parameters in pixel units.
type Tuning struct {
	StrengthPx    float32
	RadiusInnerPx float32
	RadiusOuterPx float32
	Density       float64
	Direction     core.Direction
	Falloff       core.FalloffShape
	PointSize     float32 // px
	SizeBoost     float32
	Color         [4]float32
}

// FrameInput is what the host hands over once per render tick.
type FrameInput struct {
	Pointer mgl32.Vec2 // normalized, [-1, 1], y up
	Width   float32    // surface pixels
	Height  float32
	Camera  *core.CameraState
	Time    float32 // seconds
}

// Field drives one point grid: it keeps the grid in sync with the viewport and
// writes a fresh parameter block every frame.
type Field struct {
	logger    Logger
	program   Program
	state     State
	tuning    Tuning
	grid      core.GridCache
	projector *core.PointerProjector
	block     core.ParameterBlock

	warnedNoProgram bool
	warnedNoCamera  bool
}

func NewField(tuning Tuning, logger Logger) *Field {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Field{
		logger:    logger,
		tuning:    tuning,
		projector: core.NewPointerProjector(),
	}
}

func (f *Field) State() State { return f.state }

func (f *Field) Tuning() Tuning { return f.tuning }

func (f *Field) Grid() *core.PointBuffer { return f.grid.Grid() }

// Params returns the last block written to the program.
func (f *Field) Params() core.ParameterBlock { return f.block }

// Bind attaches the program that receives uploads. The field becomes Ready on
// the next frame whose grid upload succeeds.
func (f *Field) Bind(p Program) {
	f.program = p
	f.state = StateUninitialized
	f.grid.Invalidate()
	f.warnedNoProgram = false
}

// SetTuning replaces the tuning. A density change rebuilds the grid on the
// next frame; everything else only affects the next parameter block.
func (f *Field) SetTuning(t Tuning) {
	f.tuning = t
}

// Frame projects the pointer, converts the pixel tuning to world units and
// hands one complete parameter block to the program.
func (f *Field) Frame(in FrameInput) {
	if f.program == nil {
		if !f.warnedNoProgram {
			f.logger.Warnf("point field: no program bound, skipping frame")
			f.warnedNoProgram = true
		}
		return
	}
	if in.Camera == nil {
		if !f.warnedNoCamera {
			f.logger.Warnf("point field: frame without camera, skipping")
			f.warnedNoCamera = true
		}
		return
	}
	f.warnedNoCamera = false

	vw, vh := in.Camera.Viewport(in.Width, in.Height)
	if err := f.ensureGrid(float64(vw), float64(vh)); err != nil {
		f.logger.Errorf("point field: %v", err)
		return
	}

	mouse, _ := f.projector.Project(in.Pointer, in.Camera, in.Width, in.Height)
	units := core.NewUnitConverter(vw, in.Width)

	block := core.ParameterBlock{
		MouseWorld:  mouse,
		Strength:    units.ToWorld(f.tuning.StrengthPx),
		RadiusInner: units.ToWorld(f.tuning.RadiusInnerPx),
		RadiusOuter: units.ToWorld(f.tuning.RadiusOuterPx),
		Direction:   f.tuning.Direction,
		Falloff:     f.tuning.Falloff,
		PointScale:  f.tuning.PointSize,
		SizeBoost:   f.tuning.SizeBoost,
		Time:        in.Time,
		Resolution:  mgl32.Vec2{in.Width, in.Height},
		ViewProj:    in.Camera.GetViewProjection(in.Width, in.Height),
		Color:       f.tuning.Color,
	}
	if block.Direction == 0 {
		block.Direction = core.Repel
	}

	f.block = block
	f.program.WriteParams(block)
}

func (f *Field) ensureGrid(vw, vh float64) error {
	spec := core.GridSpec{ViewportWidth: vw, ViewportHeight: vh, Density: f.tuning.Density}
	grid, rebuilt := f.grid.Ensure(spec)
	if !rebuilt {
		return nil
	}
	if err := f.program.UploadGrid(grid); err != nil {
		f.grid.Invalidate()
		f.state = StateUninitialized
		return fmt.Errorf("uploading %dx%d grid: %w", grid.Cols, grid.Rows, err)
	}
	if f.state != StateReady {
		f.logger.Infof("point field ready: %dx%d points over %.1fx%.1f", grid.Cols, grid.Rows, vw, vh)
	} else {
		f.logger.Debugf("point field grid rebuilt: %dx%d points over %.1fx%.1f", grid.Cols, grid.Rows, vw, vh)
	}
	f.state = StateReady
	return nil
}
