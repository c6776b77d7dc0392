// Package viewer implements the interactive glyph viewer loop.
package viewer

import (
	"context"
	"fmt"
	gomath "math"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/strokeglyph/internal/animation"
	"github.com/Faultbox/strokeglyph/internal/config"
	"github.com/Faultbox/strokeglyph/internal/engine/camera"
	"github.com/Faultbox/strokeglyph/internal/engine/debug"
	"github.com/Faultbox/strokeglyph/internal/engine/input"
	"github.com/Faultbox/strokeglyph/internal/engine/renderer"
	"github.com/Faultbox/strokeglyph/internal/engine/window"
	"github.com/Faultbox/strokeglyph/internal/glyph"
	"github.com/Faultbox/strokeglyph/internal/logger"
	"github.com/Faultbox/strokeglyph/internal/outlines"
	"github.com/Faultbox/strokeglyph/internal/timing"
	"github.com/Faultbox/strokeglyph/pkg/math"
)

// Viewer is the main viewer instance.
type Viewer struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	shots    *debug.ScreenshotCapture

	source     *outlines.Manager
	trigger    *animation.TriggerCounter
	controller *glyph.Controller
	loader     *glyph.Loader
	start      time.Time
}

// New creates a new viewer instance.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	v := &Viewer{
		cfg:     cfg,
		trigger: &animation.TriggerCounter{},
		camera:  camera.NewOrbitCamera(),
		shots:   debug.NewScreenshotCapture(cfg.Window.ScreenshotDir, "strokeglyph"),
	}

	src, err := outlines.Open(cfg.SourceOptions())
	if err != nil {
		return nil, err
	}
	v.source = src

	proj, err := camera.ParseProjection(cfg.Window.Projection)
	if err != nil {
		v.source.Close()
		return nil, err
	}
	v.camera.Projection = proj

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      "strokeglyph",
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    4,
	})
	if err != nil {
		v.source.Close()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	rcfg := renderer.DefaultConfig(cfg.Window.Width, cfg.Window.Height)
	rcfg.Light = cfg.Light
	rcfg.Material = cfg.Material
	v.renderer, err = renderer.New(rcfg)
	if err != nil {
		v.window.Close()
		v.source.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	var rng timing.Rand = timing.NewEntropyRand()
	if cfg.Animation.Seed != 0 {
		rng = timing.NewRand(cfg.Animation.Seed)
	}
	v.controller = glyph.NewController(v.source, v.trigger, rng, cfg.Settings())
	v.controller.Pool().OnRelease = v.renderer.Release
	v.loader = glyph.NewLoader(v.controller)

	// Create input handler
	v.input = input.New()

	logger.Info("viewer initialized successfully")
	return v, nil
}

// Run starts the main loop. It returns when the window is closed.
func (v *Viewer) Run(ctx context.Context) error {
	v.running = true
	v.start = time.Now()

	v.loader.Request(ctx, v.cfg.Animation.Character, v.cfg.Source.Timeout)

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		// Calculate delta time
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if ctx.Err() != nil {
			v.running = false
			break
		}

		// 1. Process input
		if v.input.Update() {
			// Quit event received
			v.running = false
			break
		}
		v.handleEvents(ctx)
		v.applyLoads()

		// 2. Render
		v.render(v.clock())

		if v.input.IsKeyPressed(sdl.SCANCODE_F12) {
			v.screenshot()
		}

		// 3. Present (swap buffers)
		v.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if v.cfg.Window.ShowFPS {
				v.window.SetTitle(fmt.Sprintf("strokeglyph %s - %d fps", v.controller.Character(), frameCount))
			}
			logger.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// clock returns milliseconds since Run started.
func (v *Viewer) clock() float64 {
	return float64(time.Since(v.start).Microseconds()) / 1000
}

func (v *Viewer) handleEvents(ctx context.Context) {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(event.Width, event.Height)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_SPACE, sdl.SCANCODE_RETURN:
				v.trigger.Bump()
			case sdl.SCANCODE_F5:
				v.reloadConfig()
			}
		case input.EventMouseMove:
			if event.Held {
				v.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}
		case input.EventMouseWheel:
			v.camera.HandleZoom(float32(event.DeltaY))
		}
	}

	// Anything typed that is not a control key selects a new character.
	if text := v.input.Text(); text != "" && text != " " {
		v.loader.Request(ctx, text, v.cfg.Source.Timeout)
	}
}

// applyLoads puts a character fetched in the background on screen. Mesh
// building happens here, on the render thread.
func (v *Viewer) applyLoads() {
	res, ok := v.loader.Poll(v.clock())
	if !ok {
		return
	}
	if res.Err != nil {
		logger.Warn("load failed", zap.String("input", res.Input), zap.Error(res.Err))
		return
	}
	for _, s := range res.Report.Skipped {
		logger.Warn("stroke skipped", zap.Int("stroke", s.Index), zap.Error(s.Err))
	}

	v.frameGlyph()
	v.window.SetTitle("strokeglyph " + v.controller.Character())
}

// frameGlyph points the camera at the whole glyph after scaling.
func (v *Viewer) frameGlyph() {
	s := v.controller.Settings()
	l := v.controller.Pool().Layout()
	if l.Bounds.IsEmpty() {
		return
	}
	w, h := l.Bounds.Size()
	r := gomath.Hypot(w, h)/2 + gomath.Abs(s.ZOffset)
	v.camera.FitSphere(math.Sphere{Radius: float32(r * s.Scale)})
}

// render draws the current frame.
func (v *Viewer) render(now float64) {
	frames := v.controller.Frame(now)

	proj := v.camera.ProjectionMatrix(v.window.Aspect())
	v.renderer.Begin()
	v.renderer.DrawGlyph(frames, v.camera.ViewMatrix(), proj, v.camera.Position())
	v.renderer.End()
}

// reloadConfig rereads the config file and applies what changed.
func (v *Viewer) reloadConfig() {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config reload failed", zap.Error(err))
		return
	}
	change, err := v.controller.ApplyConfig(v.clock(), cfg.Settings())
	if err != nil {
		logger.Warn("config rejected", zap.Error(err))
		return
	}
	if change.Geometry || change.Placement {
		v.frameGlyph()
	}
	v.cfg.Geometry = cfg.Geometry
	v.cfg.Animation.TimingConfig = cfg.Animation.TimingConfig
	v.cfg.Noise = cfg.Noise

	v.renderer.SetMaterial(cfg.Material)
	v.cfg.Material = cfg.Material
	if proj, err := camera.ParseProjection(cfg.Window.Projection); err == nil {
		v.camera.Projection = proj
		v.cfg.Window.Projection = cfg.Window.Projection
	}
	logger.Info("config reloaded",
		zap.Bool("geometry", change.Geometry),
		zap.Bool("timing", change.Timing),
		zap.Bool("noise", change.Noise))
}

// screenshot saves the frame just rendered, before it is presented.
func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(v.controller.Character(), pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.loader != nil {
		v.loader.Close()
	}
	if v.controller != nil {
		v.controller.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
	if v.source != nil {
		if err := v.source.Close(); err != nil {
			logger.Warn("closing outline sources", zap.Error(err))
		}
	}
}
