// glyphtool is a CLI utility for inspecting stroke outlines, meshes and
// reveal schedules without opening a window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/strokeglyph/internal/charinput"
	"github.com/Faultbox/strokeglyph/internal/config"
	"github.com/Faultbox/strokeglyph/internal/glyph"
	"github.com/Faultbox/strokeglyph/internal/logger"
	"github.com/Faultbox/strokeglyph/internal/outlines"
	"github.com/Faultbox/strokeglyph/internal/preview"
	"github.com/Faultbox/strokeglyph/internal/timing"
	"github.com/Faultbox/strokeglyph/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "timings", "t":
		cmdTimings(args)
	case "preview", "png":
		cmdPreview(args)
	case "fetch":
		cmdFetch(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`glyphtool - stroke outline and reveal schedule utility

Usage:
  glyphtool <command> [options]

Commands:
  info <char>                  Show per-stroke geometry for a character
  timings [-n N] [char]        Allocate and print a reveal schedule
  preview <char>               Rasterize a character to PNG at a point in its reveal
  fetch <chars>                Download outlines into a local data directory
  config [-o path]             Write the effective config as YAML

Common options:
  -config <path>               Config file (defaults otherwise)
  -data <dir>                  Local outline directory
  -offline                     Do not use the network

Examples:
  glyphtool info 永
  glyphtool timings -n 8 -total 4000 -seed 7
  glyphtool preview -t 1500 -o yong.png 永
  glyphtool fetch -data ./outlines 永远的
  glyphtool config -config old.yaml -o -`)
}

// common holds the options every command accepts.
type common struct {
	configPath string
	dataDir    string
	offline    bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Path to config file")
	fs.StringVar(&c.dataDir, "data", "", "Local outline directory")
	fs.BoolVar(&c.offline, "offline", false, "Do not fetch outlines over HTTP")
}

// setup loads the config and initializes logging. CLI runs log warnings only
// unless the config asks for more.
func (c *common) setup() *config.Config {
	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		fail(err)
	}
	level := cfg.Logging.Level
	if level == "info" {
		level = "warn"
	}
	if err := logger.Init(level, cfg.Logging.LogFile); err != nil {
		fail(err)
	}
	if c.dataDir != "" {
		cfg.Source.DataDir = c.dataDir
	}
	if c.offline {
		cfg.Source.BaseURL = ""
	}
	return cfg
}

func (c *common) open(cfg *config.Config) *outlines.Manager {
	m, err := outlines.Open(cfg.SourceOptions())
	if err != nil {
		fail(err)
	}
	return m
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	logger.Sync()
	os.Exit(1)
}

func loadCharacter(cfg *config.Config, src outlines.Source, input string) (string, *outlines.Character) {
	char, err := charinput.Normalize(input)
	if err != nil {
		fail(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Source.Timeout)
	defer cancel()

	c, err := src.Load(ctx, char)
	if err != nil {
		fail(err)
	}
	return char, c
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	var c common
	c.register(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glyphtool info <char>")
		os.Exit(1)
	}

	cfg := c.setup()
	defer logger.Sync()
	src := c.open(cfg)
	defer src.Close()

	char, ch := loadCharacter(cfg, src, fs.Arg(0))
	if charinput.Truncated(fs.Arg(0)) {
		fmt.Printf("Note: using first character of %q\n", fs.Arg(0))
	}

	pool := glyph.NewPool()
	report, err := pool.Build(ch.Strokes, cfg.Geometry.Params)
	if err != nil {
		fail(err)
	}

	skipped := make(map[int]error, len(report.Skipped))
	for _, s := range report.Skipped {
		skipped[s.Index] = s.Err
	}

	fmt.Printf("Character: %s (U+%04X)\n", char, []rune(char)[0])
	fmt.Printf("Strokes:   %d (%d built, %d skipped)\n", report.Strokes, report.Built, len(report.Skipped))
	fmt.Printf("Triangles: %d\n", report.Triangles)
	fmt.Println()

	placements := pool.Placements(cfg.Geometry.ZOffset, cfg.Geometry.Scale)
	world := math.EmptyBox2()
	for i := 0; i < pool.Len(); i++ {
		if err, ok := skipped[i]; ok {
			fmt.Printf("  %3d  skipped  %v\n", i, err)
			continue
		}
		m := pool.Mesh(i)
		o := m.Outline
		fmt.Printf("  %3d  %6d tris  x[%7.1f %7.1f] y[%7.1f %7.1f]  z-jitter %7.1f\n",
			i, m.TriangleCount(), o.MinX, o.MaxX, o.MinY, o.MaxY, glyph.ZJitter(i, cfg.Geometry.ZOffset))
		world = world.Union(placements[i].Place(o))
	}

	l := pool.Layout()
	fmt.Println()
	if l.Bounds.IsEmpty() {
		fmt.Println("Layout:    empty")
		return
	}
	fmt.Printf("Bounds:    x[%.1f %.1f] y[%.1f %.1f]\n", l.Bounds.MinX, l.Bounds.MaxX, l.Bounds.MinY, l.Bounds.MaxY)
	fmt.Printf("Offset:    (%.1f, %.1f)\n", l.OffsetX, l.OffsetY)
	fmt.Printf("World:     x[%.3f %.3f] y[%.3f %.3f] at scale %g\n",
		world.MinX, world.MaxX, world.MinY, world.MaxY, cfg.Geometry.Scale)
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	var c common
	c.register(fs)
	out := fs.String("o", "", "Output path, - for stdout (default: user config dir)")
	fs.Parse(args)

	cfg := c.setup()
	defer logger.Sync()

	switch *out {
	case "-":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			fail(err)
		}
		if err := enc.Close(); err != nil {
			fail(err)
		}
	case "":
		if err := cfg.Save(); err != nil {
			fail(err)
		}
		fmt.Printf("Wrote: %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	default:
		if err := cfg.SaveTo(*out); err != nil {
			fail(err)
		}
		fmt.Printf("Wrote: %s\n", *out)
	}
}

func cmdTimings(args []string) {
	fs := flag.NewFlagSet("timings", flag.ExitOnError)
	var c common
	c.register(fs)
	n := fs.Int("n", 0, "Stroke count (ignored when a character is given)")
	total := fs.Float64("total", 0, "Total duration in ms (0 = config)")
	minDur := fs.Float64("min", 0, "Minimum stroke duration in ms (0 = config)")
	seed := fs.Uint64("seed", 0, "Random seed (0 = config, then entropy)")
	fs.Parse(args)

	cfg := c.setup()
	defer logger.Sync()

	count := *n
	if fs.NArg() > 0 {
		src := c.open(cfg)
		defer src.Close()
		_, ch := loadCharacter(cfg, src, fs.Arg(0))
		count = len(ch.Strokes)
	}
	if count <= 0 {
		fmt.Fprintln(os.Stderr, "Usage: glyphtool timings [-n N | <char>]")
		os.Exit(1)
	}

	tc := cfg.Animation.TimingConfig
	if *total > 0 {
		tc.TotalDuration = *total
	}
	if *minDur > 0 {
		tc.MinStrokeDuration = *minDur
	}

	timings := timing.Allocate(count, tc.TotalDuration, tc.MinStrokeDuration, pickRand(*seed, cfg.Animation.Seed))

	fmt.Printf("Strokes: %d  budget %.0f ms  floor %.0f ms\n\n", count, tc.TotalDuration, tc.MinStrokeDuration)
	fmt.Println("  stroke   delay  duration       end")
	for i, t := range timings {
		fmt.Printf("  %6d  %6.0f  %8.0f  %8.0f\n", i, t.Delay, t.Duration, t.End())
	}
	fmt.Printf("\nTotal: %.0f ms\n", timing.Total(timings))
}

func cmdPreview(args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	var c common
	c.register(fs)
	out := fs.String("o", "", "Output PNG (default <codepoint>.png)")
	size := fs.Int("size", 512, "Image edge in pixels")
	at := fs.Float64("t", -1, "Time into the reveal in ms (-1 = finished)")
	seed := fs.Uint64("seed", 0, "Random seed (0 = config, then entropy)")
	white := fs.Bool("white", false, "Draw on a white background")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glyphtool preview [-o out.png] [-t ms] <char>")
		os.Exit(1)
	}

	cfg := c.setup()
	defer logger.Sync()
	src := c.open(cfg)
	defer src.Close()

	char, ch := loadCharacter(cfg, src, fs.Arg(0))

	var strengths []float64
	if *at >= 0 {
		strengths = preview.Strengths(len(ch.Strokes), *at, cfg.Animation.TimingConfig,
			pickRand(*seed, cfg.Animation.Seed))
	}

	opts := preview.DefaultOptions()
	opts.Size = *size
	opts.CurveSegments = cfg.Geometry.CurveSegments
	if *white {
		opts.Background = color.White
	}
	img, err := preview.Render(ch.Strokes, strengths, opts)
	if err != nil {
		fail(err)
	}

	path := *out
	if path == "" {
		path = fmt.Sprintf("%04X.png", []rune(char)[0])
	}
	f, err := os.Create(path)
	if err != nil {
		fail(err)
	}
	if err := preview.WritePNG(f, img); err != nil {
		f.Close()
		fail(err)
	}
	if err := f.Close(); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote: %s (%d strokes)\n", path, len(ch.Strokes))
}

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	var c common
	c.register(fs)
	force := fs.Bool("f", false, "Overwrite outlines already in the data directory")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glyphtool fetch -data <dir> <chars>")
		os.Exit(1)
	}

	cfg := c.setup()
	defer logger.Sync()
	if cfg.Source.DataDir == "" {
		fail(errors.New("fetch needs a data directory (-data or source.data_dir)"))
	}
	if cfg.Source.BaseURL == "" {
		fail(errors.New("fetch needs a base URL, remove -offline"))
	}

	dst := outlines.DirSource{Dir: cfg.Source.DataDir}
	// Fetch from the network side only; the data dir is the destination.
	opts := cfg.SourceOptions()
	opts.DataDir = ""
	remote, err := outlines.Open(opts)
	if err != nil {
		fail(err)
	}
	defer remote.Close()

	var fetched, failed int
	for _, r := range fs.Arg(0) {
		char := string(r)
		if !*force {
			if _, err := os.Stat(filepath.Join(dst.Dir, char+".json")); err == nil {
				fmt.Printf("  %s  exists\n", char)
				continue
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Source.Timeout)
		ch, err := remote.Load(ctx, char)
		cancel()
		if err == nil {
			err = dst.Store(char, ch)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s  %v\n", char, err)
			failed++
			continue
		}
		fmt.Printf("  %s  %d strokes\n", char, len(ch.Strokes))
		fetched++
	}

	fmt.Fprintf(os.Stderr, "\nFetched %d, failed %d\n", fetched, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func pickRand(flagSeed, cfgSeed uint64) timing.Rand {
	switch {
	case flagSeed != 0:
		return timing.NewRand(flagSeed)
	case cfgSeed != 0:
		return timing.NewRand(cfgSeed)
	default:
		return timing.NewEntropyRand()
	}
}
