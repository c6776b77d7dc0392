package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagChar       = flag.String("char", "", "Character to show")
	flagSeed       = flag.Uint64("seed", 0, "Timing jitter seed (0 = random)")
	flagDataDir    = flag.String("data", "", "Directory of outline JSON files")
	flagOffline    = flag.Bool("offline", false, "Do not fetch outlines over the network")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Window.ShowFPS = true
	}
	if *flagChar != "" {
		cfg.Animation.Character = *flagChar
	}
	if *flagSeed != 0 {
		cfg.Animation.Seed = *flagSeed
	}
	if *flagDataDir != "" {
		cfg.Source.DataDir = *flagDataDir
	}
	if *flagOffline {
		cfg.Source.BaseURL = ""
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
