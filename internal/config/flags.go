package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagTechnique  = flag.String("technique", "", "Shadow technique: pcf, vsm or vsmcube")
	flagBackend    = flag.String("backend", "", "Graphics backend: gl or soft")
	flagWindow     = flag.String("window", "", "Window backend: sdl or glfw")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagShadowSize = flag.Int("shadow-size", 0, "Shadow map resolution")
	flagNoBlur     = flag.Bool("no-blur", false, "Skip the variance map blur")
	flagHeadless   = flag.Int("headless", 0, "Render N frames on the soft backend, capture and exit")
	flagCaptureDir = flag.String("capture-dir", "", "Directory for captures")
	flagCaptureFmt = flag.String("capture-format", "", "Capture image format: png or bmp")
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
	}
	if *flagTechnique != "" {
		cfg.Shadow.Technique = *flagTechnique
	}
	if *flagBackend != "" {
		cfg.Graphics.Backend = *flagBackend
	}
	if *flagWindow != "" {
		cfg.Graphics.Window = *flagWindow
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagShadowSize > 0 {
		cfg.Shadow.MapSize = *flagShadowSize
	}
	if *flagNoBlur {
		cfg.Shadow.Blur = false
	}
	if *flagHeadless > 0 {
		cfg.Debug.HeadlessFrames = *flagHeadless
		cfg.Graphics.Backend = "soft"
	}
	if *flagCaptureDir != "" {
		cfg.Debug.CaptureDir = *flagCaptureDir
	}
	if *flagCaptureFmt != "" {
		cfg.Debug.CaptureFormat = *flagCaptureFmt
	}
}
