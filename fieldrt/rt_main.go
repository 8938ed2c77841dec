package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/gekko3d/pointfield"
	"github.com/gekko3d/pointfield/fieldrt/rt/app"
	"github.com/gekko3d/pointfield/fieldrt/rt/config"
	"github.com/gekko3d/pointfield/fieldrt/rt/soft"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config file merged over the built-in defaults")
	debug := flag.Bool("debug", false, "Enable debug logging (FPS and frame timings)")
	snapshot := flag.String("snapshot", "", "Render one frame on the CPU to this PNG and exit")
	pointerFlag := flag.String("pointer", "0,0", "Normalized pointer x,y in [-1,1] for -snapshot")
	width := flag.Int("width", 0, "Override window width")
	height := flag.Int("height", 0, "Override window height")
	flag.Parse()

	logger := pointfield.NewDefaultLogger("fieldrt", *debug)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("config: %v", err)
		os.Exit(1)
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	for _, w := range cfg.Warnings() {
		logger.Warnf("config: %s", w)
	}

	if *snapshot != "" {
		pointer, err := parsePointer(*pointerFlag)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(2)
		}
		if err := renderSnapshot(cfg, pointer, *snapshot, logger); err != nil {
			logger.Errorf("snapshot: %v", err)
			os.Exit(1)
		}
		logger.Infof("wrote %s", *snapshot)
		return
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	application := app.NewApp(window, cfg, logger)
	application.DebugMode = *debug
	if err := application.Init(); err != nil {
		panic(err)
	}
	defer application.Release()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		application.SetCursor(xpos, ypos)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
			return
		}
		if action == glfw.Press || action == glfw.Repeat {
			application.HandleKey(key)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		application.Update()
		application.Render()
	}
}

// renderSnapshot draws a single frame with the software rasterizer.
func renderSnapshot(cfg *config.Config, pointer mgl32.Vec2, path string, logger pointfield.Logger) error {
	renderer := soft.NewRenderer(cfg.Derived.Background)
	field := pointfield.NewField(cfg.FieldTuning(), logger.With("field"))
	field.Bind(renderer)

	field.Frame(pointfield.FrameInput{
		Pointer: pointer,
		Width:   float32(cfg.Window.Width),
		Height:  float32(cfg.Window.Height),
		Camera:  cfg.NewCamera(),
	})
	if field.State() != pointfield.StateReady {
		return fmt.Errorf("point field not ready")
	}
	return renderer.WritePNG(path)
}

func parsePointer(s string) (mgl32.Vec2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return mgl32.Vec2{}, fmt.Errorf("pointer %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
	if err != nil {
		return mgl32.Vec2{}, fmt.Errorf("pointer x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 32)
	if err != nil {
		return mgl32.Vec2{}, fmt.Errorf("pointer y: %w", err)
	}
	return mgl32.Vec2{float32(x), float32(y)}, nil
}
