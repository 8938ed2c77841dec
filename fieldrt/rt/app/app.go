package app

import (
	"fmt"

	"github.com/gekko3d/pointfield"
	"github.com/gekko3d/pointfield/fieldrt/rt/config"
	"github.com/gekko3d/pointfield/fieldrt/rt/core"
	"github.com/gekko3d/pointfield/fieldrt/rt/gpu"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Points   *gpu.PointsRenderPass
	Field    *pointfield.Field
	Camera   *core.CameraState
	Settings *config.Config
	Logger   pointfield.Logger
	Profiler *Profiler

	Pointer mgl32.Vec2

	StartTime      float64
	LastRenderTime float64
	DebugMode      bool

	FrameCount int
	FPS        float64
	FPSTime    float64
}

func NewApp(window *glfw.Window, settings *config.Config, logger pointfield.Logger) *App {
	if logger == nil {
		logger = pointfield.NewNopLogger()
	}
	return &App{
		Window:   window,
		Settings: settings,
		Logger:   logger,
		Camera:   settings.NewCamera(),
		Field:    pointfield.NewField(settings.FieldTuning(), logger.With("field")),
		Profiler: NewProfiler(),
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)

	surface := a.Instance.CreateSurface(GetSurfaceDescriptor(a.Window))
	a.Surface = surface

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return err
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	format := caps.Formats[0]

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, a.Device, a.Config)

	a.Points, err = gpu.NewPointsRenderPass(a.Device, format)
	if err != nil {
		return err
	}
	a.Field.Bind(a.Points)

	a.StartTime = glfw.GetTime()
	a.Logger.Infof("renderer initialized: %dx%d, format %v", width, height, format)
	return nil
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
		a.Logger.Debugf("surface resized to %dx%d", w, h)
	}
}

// SetCursor records the cursor position given in window coordinates.
func (a *App) SetCursor(x, y float64) {
	w, h := a.Window.GetSize()
	a.Pointer = NormalizePointer(x, y, w, h)
}

func (a *App) HandleKey(key glfw.Key) {
	tuning := a.Field.Tuning()
	if !ApplyKey(&tuning, key) {
		return
	}
	a.Field.SetTuning(tuning)
	a.Logger.Infof("tuning: density=%.2f strength=%.0fpx direction=%v falloff=%v",
		tuning.Density, tuning.StrengthPx, tuning.Direction, tuning.Falloff)
}

func (a *App) Update() {
	a.Profiler.BeginScope("update")
	a.Field.Frame(pointfield.FrameInput{
		Pointer: a.Pointer,
		Width:   float32(a.Config.Width),
		Height:  float32(a.Config.Height),
		Camera:  a.Camera,
		Time:    float32(glfw.GetTime() - a.StartTime),
	})
	a.Profiler.EndScope("update")
	if grid := a.Field.Grid(); grid != nil {
		a.Profiler.SetCount("points", grid.Len())
	}
}

func (a *App) Render() {
	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Logger.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Logger.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Logger.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	err = a.Profiler.Time("render", func() error {
		bg := a.Settings.Derived.Background
		rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: float64(bg[0]), G: float64(bg[1]), B: float64(bg[2]), A: float64(bg[3])},
			}},
		})
		if a.Field.State() == pointfield.StateReady {
			a.Points.Draw(rPass)
		}
		if err := rPass.End(); err != nil {
			a.Logger.Errorf("points pass End failed: %v", err)
		}

		cmd, err := encoder.Finish(nil)
		if err != nil {
			return fmt.Errorf("encoder Finish failed: %w", err)
		}
		a.Queue.Submit(cmd)
		a.Surface.Present()
		return nil
	})
	if err != nil {
		a.Logger.Errorf("%v", err)
		return
	}

	now := glfw.GetTime()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
		if a.FPSTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.FPSTime
			a.FrameCount = 0
			a.FPSTime = 0
			if a.DebugMode {
				a.Logger.Debugf("fps=%.1f %s", a.FPS, a.Profiler.Summary())
			}
		}
	}
	a.LastRenderTime = now
}

func (a *App) Release() {
	if a.Points != nil {
		a.Points.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Adapter != nil {
		a.Adapter.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}

func GetSurfaceDescriptor(w *glfw.Window) *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w)
}
