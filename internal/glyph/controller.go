package glyph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/strokeglyph/internal/animation"
	"github.com/Faultbox/strokeglyph/internal/charinput"
	"github.com/Faultbox/strokeglyph/internal/engine/model"
	"github.com/Faultbox/strokeglyph/internal/logger"
	"github.com/Faultbox/strokeglyph/internal/outlines"
	"github.com/Faultbox/strokeglyph/internal/timing"
)

// StrokeFrame is what the renderer needs to draw one stroke this frame.
type StrokeFrame struct {
	Index     int
	Mesh      *model.Mesh
	Placement Placement
	Uniforms  animation.Uniforms
}

// Controller runs one character on screen. It is not safe for concurrent
// use; drive it from the render loop.
type Controller struct {
	source   outlines.Source
	pool     *Pool
	orch     *animation.Orchestrator
	settings Settings

	char       string
	strokes    []string
	placements []Placement
	params     []animation.Uniforms
	lastReport BuildReport
}

// NewController creates a controller with nothing loaded.
func NewController(src outlines.Source, trigger *animation.TriggerCounter, rng timing.Rand, s Settings) *Controller {
	return &Controller{
		source:   src,
		pool:     NewPool(),
		orch:     animation.NewOrchestrator(trigger, rng, animation.Options{}),
		settings: s,
	}
}

// Fetched is the outcome of fetching a character's outline data, ready to
// be applied on the render loop.
type Fetched struct {
	Input string
	Char  string
	// Truncated is set when Input held more than the one character used.
	Truncated bool
	Data      *outlines.Character
	Err       error
}

// LoadCharacter switches to the character in input. Only the first grapheme
// is used. If the character cannot be loaded the current one stays on screen
// and the error is returned.
func (c *Controller) LoadCharacter(ctx context.Context, now float64, input string) (BuildReport, error) {
	return c.Apply(now, c.Fetch(ctx, input))
}

// Fetch normalizes input and loads its outline data. It reads only the
// source and leaves the controller untouched, so it may run on any
// goroutine while the render loop keeps drawing.
func (c *Controller) Fetch(ctx context.Context, input string) Fetched {
	f := Fetched{Input: input}
	char, err := charinput.Normalize(input)
	if err != nil {
		f.Err = fmt.Errorf("%w: %q", err, input)
		return f
	}
	f.Char = char
	f.Truncated = charinput.Truncated(input)
	f.Data, f.Err = c.source.Load(ctx, char)
	return f
}

// Apply builds meshes for fetched data and puts the character on screen.
// A failed fetch or build keeps the current character.
func (c *Controller) Apply(now float64, f Fetched) (BuildReport, error) {
	log := logger.Named("glyph")
	if f.Err != nil {
		log.Warn("character unavailable, keeping current", zap.String("input", f.Input), zap.Error(f.Err))
		return BuildReport{}, f.Err
	}
	if f.Truncated {
		log.Info("using first character", zap.String("input", f.Input), zap.String("char", f.Char))
	}

	report, err := c.pool.Build(f.Data.Strokes, c.settings.Geometry)
	if err != nil {
		return report, err
	}

	c.char = f.Char
	c.strokes = f.Data.Strokes
	c.lastReport = report
	c.placements = c.pool.Placements(c.settings.ZOffset, c.settings.Scale)
	c.params = make([]animation.Uniforms, len(f.Data.Strokes))
	c.applyNoise()
	c.orch.SetStrokes(now, len(f.Data.Strokes), c.settings.Timing)

	log.Info("character loaded",
		zap.String("char", f.Char),
		zap.Int("strokes", report.Strokes),
		zap.Int("skipped", len(report.Skipped)))
	return report, nil
}

// ApplyConfig switches to new settings and redoes only the work they
// require: geometry changes rebuild meshes, timing changes reallocate the
// schedule, noise changes only touch the parameter blocks.
func (c *Controller) ApplyConfig(now float64, s Settings) (Change, error) {
	ch := c.settings.Diff(s)
	if !ch.Any() {
		return ch, nil
	}

	if ch.Geometry && c.strokes != nil {
		report, err := c.pool.Build(c.strokes, s.Geometry)
		if err != nil {
			return Change{}, err
		}
		c.lastReport = report
	}
	c.settings = s

	if ch.Geometry || ch.Placement {
		c.placements = c.pool.Placements(s.ZOffset, s.Scale)
	}
	if ch.Timing {
		c.orch.SetTiming(now, s.Timing)
	}
	if ch.Noise {
		c.applyNoise()
	}

	logger.Named("glyph").Debug("settings applied",
		zap.Bool("geometry", ch.Geometry),
		zap.Bool("placement", ch.Placement),
		zap.Bool("timing", ch.Timing),
		zap.Bool("noise", ch.Noise))
	return ch, nil
}

func (c *Controller) applyNoise() {
	for i := range c.params {
		c.params[i].NoiseScale = c.settings.Noise.Scale
		c.params[i].NoiseStrength = c.settings.Noise.Strength
		c.params[i].NoiseSpeed = c.settings.Noise.Speed
	}
}

// Frame advances animation to now (milliseconds) and returns the strokes to
// draw in index order. Skipped strokes are left out.
func (c *Controller) Frame(now float64) []StrokeFrame {
	c.orch.Update(now, c.params)

	frames := make([]StrokeFrame, 0, c.pool.Len())
	for i := 0; i < c.pool.Len(); i++ {
		m := c.pool.Mesh(i)
		if m == nil {
			continue
		}
		frames = append(frames, StrokeFrame{
			Index:     i,
			Mesh:      m,
			Placement: c.placements[i],
			Uniforms:  c.params[i],
		})
	}
	return frames
}

// Replay restarts the reveal with the current timings.
func (c *Controller) Replay(now float64) {
	c.orch.Replay(now)
}

// Close releases the meshes.
func (c *Controller) Close() {
	c.pool.Release()
}

// Character returns the character on screen, empty before the first load.
func (c *Controller) Character() string { return c.char }

// Settings returns the active settings.
func (c *Controller) Settings() Settings { return c.settings }

// Report returns the report of the most recent build.
func (c *Controller) Report() BuildReport { return c.lastReport }

// Pool returns the mesh pool.
func (c *Controller) Pool() *Pool { return c.pool }

// Orchestrator returns the animation orchestrator.
func (c *Controller) Orchestrator() *animation.Orchestrator { return c.orch }

// Done reports whether the reveal has finished.
func (c *Controller) Done(now float64) bool { return c.orch.Done(now) }
