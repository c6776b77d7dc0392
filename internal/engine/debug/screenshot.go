// Package debug provides capture utilities for inspecting rendered glyphs.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ScreenshotCapture writes frames to PNG files named after the character on
// screen and the capture time.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Filename returns the path a capture of char would be written to.
// Characters are spelled as code points so names stay ASCII.
func (sc *ScreenshotCapture) Filename(char string) string {
	parts := []string{sc.prefix}
	if char != "" {
		var cps []string
		for _, r := range char {
			cps = append(cps, fmt.Sprintf("U+%04X", r))
		}
		parts = append(parts, strings.Join(cps, "-"))
	}
	parts = append(parts, sc.now().Format("2006-01-02_15-04-05.000"))

	name := strings.Join(parts, "_") + ".png"
	if sc.outputDir != "" {
		name = filepath.Join(sc.outputDir, name)
	}
	return name
}

// CaptureFromPixels saves bottom-up RGBA pixel data, as read back from
// OpenGL, flipping it to top-down rows.
func (sc *ScreenshotCapture) CaptureFromPixels(char string, pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return sc.CaptureFromImage(char, img)
}

// CaptureFromImage saves img and returns the file it was written to.
func (sc *ScreenshotCapture) CaptureFromImage(char string, img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.Filename(char)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}
