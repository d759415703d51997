// Package config handles demo configuration loading and management.
package config

// Config holds all demo settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Light    LightConfig    `yaml:"light"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and backend settings.
type GraphicsConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	VSync        bool   `yaml:"vsync"`
	Backend      string `yaml:"backend"` // gl | soft
	Window       string `yaml:"window"`  // sdl | glfw
	DebugContext bool   `yaml:"debug_context"`
}

// ShadowConfig selects the shadow technique and its resources.
type ShadowConfig struct {
	Technique    string  `yaml:"technique"` // pcf | vsm | vsmcube
	MapSize      int     `yaml:"map_size"`
	Blur         bool    `yaml:"blur"`       // vsm and vsmcube only
	BlurScale    float32 `yaml:"blur_scale"` // 0 keeps the technique default
	SamplingMode string  `yaml:"sampling_mode"`
	PCFKernel    int     `yaml:"pcf_kernel"`
}

// LightConfig holds the orbiting light settings used by the cube technique.
type LightConfig struct {
	OrbitSpeed  float32 `yaml:"orbit_speed"` // degrees per second
	OrbitRadius float32 `yaml:"orbit_radius"`
}

// DebugConfig holds debug view and capture settings.
type DebugConfig struct {
	ShowShadowMap  bool   `yaml:"show_shadow_map"`
	CaptureDir     string `yaml:"capture_dir"`
	CaptureFormat  string `yaml:"capture_format"` // png | bmp
	HeadlessFrames int    `yaml:"headless_frames"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the values the demos were tuned with.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:        1280,
			Height:       720,
			VSync:        true,
			Backend:      "gl",
			Window:       "sdl",
			DebugContext: true,
		},
		Shadow: ShadowConfig{
			Technique:    "pcf",
			MapSize:      512,
			Blur:         true,
			BlurScale:    0,
			SamplingMode: "manual",
			PCFKernel:    3,
		},
		Light: LightConfig{
			OrbitSpeed:  50,
			OrbitRadius: 2,
		},
		Debug: DebugConfig{
			ShowShadowMap:  false,
			CaptureDir:     "captures",
			CaptureFormat:  "png",
			HeadlessFrames: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
