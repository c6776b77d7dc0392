// Package preview rasterizes a character's stroke outlines into a flat image
// at a point in its reveal, for inspecting layouts and schedules without a GPU.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"go.uber.org/zap"
	"golang.org/x/image/vector"

	"github.com/Faultbox/strokeglyph/internal/animation"
	"github.com/Faultbox/strokeglyph/internal/engine/layout"
	"github.com/Faultbox/strokeglyph/internal/logger"
	"github.com/Faultbox/strokeglyph/internal/timing"
	"github.com/Faultbox/strokeglyph/pkg/math"
	"github.com/Faultbox/strokeglyph/pkg/outline"
)

// ErrNothingToDraw is returned when no stroke of a character could be parsed.
var ErrNothingToDraw = errors.New("no drawable strokes")

// Options controls rasterization.
type Options struct {
	Size          int // square output edge in pixels
	Padding       int
	CurveSegments int
	Ink           color.RGBA
	Background    color.Color // nil leaves the image transparent
}

// DefaultOptions returns a 512 pixel black-on-transparent preview.
func DefaultOptions() Options {
	return Options{
		Size:          512,
		Padding:       16,
		CurveSegments: 16,
		Ink:           color.RGBA{A: 0xff},
	}
}

// Render draws each stroke with opacity 1-strengths[i]. A missing strength
// counts as fully visible. Strokes that fail to parse are skipped, matching
// the mesh pool.
func Render(strokes []string, strengths []float64, opts Options) (*image.RGBA, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid preview size %d", opts.Size)
	}
	segs := max(opts.CurveSegments, 1)

	shapes := make([][]outline.Shape, len(strokes))
	boxes := make([]math.Box2, 0, len(strokes))
	for i, d := range strokes {
		p, err := outline.Parse(d)
		if err == nil {
			shapes[i], err = p.Shapes(segs)
		}
		if err != nil {
			logger.Named("preview").Debug("skipping stroke", zap.Int("stroke", i), zap.Error(err))
			shapes[i] = nil
			continue
		}
		box := math.EmptyBox2()
		for _, s := range shapes[i] {
			for _, pt := range s.Contour {
				box = box.Extend(pt.X, pt.Y)
			}
		}
		boxes = append(boxes, box)
	}
	if len(boxes) == 0 {
		return nil, ErrNothingToDraw
	}

	dst := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	if opts.Background != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	fit := newFit(layout.Aggregate(boxes).Bounds, opts.Size, opts.Padding)
	r := vector.NewRasterizer(opts.Size, opts.Size)
	for i, ss := range shapes {
		if ss == nil {
			continue
		}
		alpha := 1.0
		if i < len(strengths) {
			alpha = 1 - clamp01(strengths[i])
		}
		if alpha <= 0 {
			continue
		}

		r.Reset(opts.Size, opts.Size)
		for _, s := range ss {
			fit.addLoop(r, s.Contour)
			for _, h := range s.Holes {
				fit.addLoop(r, h)
			}
		}
		r.Draw(dst, dst.Bounds(), image.NewUniform(scaleAlpha(opts.Ink, alpha)), image.Point{})
	}
	return dst, nil
}

// Strengths returns the reveal strength of n strokes at t milliseconds after
// a reveal started at 0 with a fresh schedule drawn from rng.
func Strengths(n int, t float64, cfg animation.TimingConfig, rng timing.Rand) []float64 {
	o := animation.NewOrchestrator(nil, rng, animation.Options{})
	o.SetStrokes(0, n, cfg)
	params := make([]animation.Uniforms, n)
	o.Update(t, params)

	out := make([]float64, n)
	for i, p := range params {
		out[i] = p.RevealStrength
	}
	return out
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// fit maps outline units (y up) to pixels (y down), preserving aspect ratio
// and centering the layout box.
type fit struct {
	scale  float64
	ox, oy float64
	box    math.Box2
}

func newFit(box math.Box2, size, padding int) fit {
	inner := float64(size - 2*padding)
	if inner <= 0 {
		inner = float64(size)
		padding = 0
	}
	w, h := box.Size()
	side := max(w, h)
	if side <= 0 {
		side = 1
	}
	s := inner / side
	return fit{
		scale: s,
		ox:    float64(padding) + (inner-w*s)/2,
		oy:    float64(padding) + (inner-h*s)/2,
		box:   box,
	}
}

func (f fit) point(p outline.Point) (float32, float32) {
	x := f.ox + (p.X-f.box.MinX)*f.scale
	y := f.oy + (f.box.MaxY-p.Y)*f.scale
	return float32(x), float32(y)
}

func (f fit) addLoop(r *vector.Rasterizer, loop outline.Polygon) {
	if len(loop) < 3 {
		return
	}
	r.MoveTo(f.point(loop[0]))
	for _, p := range loop[1:] {
		r.LineTo(f.point(p))
	}
	r.ClosePath()
}

func scaleAlpha(c color.RGBA, a float64) color.RGBA {
	// color.RGBA is premultiplied.
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
