package preview

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/Faultbox/strokeglyph/internal/animation"
	"github.com/Faultbox/strokeglyph/internal/timing"
)

const (
	squareStroke = "M 0 0 L 100 0 L 100 100 L 0 100 Z"
	ringStroke   = "M 0 0 L 100 0 L 100 100 L 0 100 Z M 30 30 L 30 70 L 70 70 L 70 30 Z"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Size = 64
	opts.Padding = 0
	return opts
}

func TestRenderFilledSquare(t *testing.T) {
	img, err := Render([]string{squareStroke}, nil, testOptions())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if a := img.RGBAAt(32, 32).A; a != 0xff {
		t.Errorf("expected opaque center, got alpha %d", a)
	}
}

func TestRenderHiddenStrokeIsTransparent(t *testing.T) {
	img, err := Render([]string{squareStroke}, []float64{animation.Hidden}, testOptions())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if a := img.RGBAAt(32, 32).A; a != 0 {
		t.Errorf("expected transparent center, got alpha %d", a)
	}
}

func TestRenderPartialStrength(t *testing.T) {
	img, err := Render([]string{squareStroke}, []float64{0.5}, testOptions())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	a := img.RGBAAt(32, 32).A
	if a < 0x70 || a > 0x90 {
		t.Errorf("expected roughly half alpha, got %d", a)
	}
}

func TestRenderHole(t *testing.T) {
	img, err := Render([]string{ringStroke}, nil, testOptions())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if a := img.RGBAAt(32, 32).A; a != 0 {
		t.Errorf("expected hole at center, got alpha %d", a)
	}
	if a := img.RGBAAt(5, 5).A; a != 0xff {
		t.Errorf("expected filled ring near corner, got alpha %d", a)
	}
}

func TestRenderFlipsY(t *testing.T) {
	// Lower half of the design square only: y up means it lands at the
	// bottom of the image.
	strokes := []string{squareStroke, "M 0 0 L 100 0 L 100 40 L 0 40 Z"}
	img, err := Render(strokes, []float64{animation.Hidden, animation.Visible}, testOptions())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if a := img.RGBAAt(32, 60).A; a != 0xff {
		t.Errorf("expected bottom row filled, got alpha %d", a)
	}
	if a := img.RGBAAt(32, 4).A; a != 0 {
		t.Errorf("expected top row empty, got alpha %d", a)
	}
}

func TestRenderSkipsBadStrokes(t *testing.T) {
	img, err := Render([]string{"M 0 0 L 1", squareStroke}, nil, testOptions())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if a := img.RGBAAt(32, 32).A; a != 0xff {
		t.Errorf("expected good stroke drawn, got alpha %d", a)
	}

	if _, err := Render([]string{"garbage"}, nil, testOptions()); !errors.Is(err, ErrNothingToDraw) {
		t.Errorf("expected ErrNothingToDraw, got %v", err)
	}
}

func TestRenderBackground(t *testing.T) {
	opts := testOptions()
	opts.Background = color.White
	img, err := Render([]string{squareStroke}, []float64{animation.Hidden}, opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("expected white background, got %v", got)
	}
}

func TestRenderInvalidSize(t *testing.T) {
	opts := testOptions()
	opts.Size = 0
	if _, err := Render([]string{squareStroke}, nil, opts); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestStrengths(t *testing.T) {
	cfg := animation.DefaultTimingConfig()

	start := Strengths(3, 0, cfg, timing.NewRand(1))
	for i, s := range start {
		if s != animation.Hidden {
			t.Errorf("stroke %d: expected hidden at t=0, got %v", i, s)
		}
	}

	end := Strengths(3, 1e6, cfg, timing.NewRand(1))
	for i, s := range end {
		if s != animation.Visible {
			t.Errorf("stroke %d: expected visible after the schedule, got %v", i, s)
		}
	}

	if got := Strengths(0, 100, cfg, timing.NewRand(1)); len(got) != 0 {
		t.Errorf("expected no strengths, got %v", got)
	}
}

func TestWritePNG(t *testing.T) {
	img, err := Render([]string{squareStroke}, nil, testOptions())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatalf("WritePNG() error: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if decoded.Bounds().Dx() != 64 {
		t.Errorf("expected width 64, got %d", decoded.Bounds().Dx())
	}
}
