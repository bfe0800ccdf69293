package config

import (
	"flag"
	"io"
)

// Flags holds command-line overrides. Zero values mean "not given".
type Flags struct {
	set *flag.FlagSet

	config     string
	saveConfig bool
	debug      bool
	windowed   bool
	fullscreen bool
	width      int
	height     int

	bounces  uint
	samples  uint
	blur     float64
	seed     uint
	strength float64

	skybox  colorFlag
	ambient colorFlag

	stridePolicy string
	stride       int
	logFile      string

	Scene       string
	SceneFormat string
	Out         string
}

// NewFlags registers every flag on a fresh FlagSet named name.
func NewFlags(name string, output io.Writer) *Flags {
	f := &Flags{set: flag.NewFlagSet(name, flag.ContinueOnError)}
	if output != nil {
		f.set.SetOutput(output)
	}
	fs := f.set

	fs.StringVar(&f.config, "config", "", "Path to config file")
	fs.BoolVar(&f.saveConfig, "save-config", false, "Write the effective config back to the config file")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&f.fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.width, "width", 0, "Window width")
	fs.IntVar(&f.height, "height", 0, "Window height")

	fs.UintVar(&f.bounces, "max-ray-bounces-per-ray", 0, "Maximum ray bounces")
	fs.UintVar(&f.samples, "max-samples-per-pixel", 0, "Maximum samples per pixel")
	fs.Float64Var(&f.blur, "focal-blur-strength", 0, "Focal blur strength")
	fs.UintVar(&f.seed, "seed", 0, "Random seed (0 picks one)")
	fs.Float64Var(&f.strength, "ambient-lighting-strength", -1, "Ambient light strength")
	fs.Var(&f.skybox, "skybox-color", `Skybox color, e.g. "(0.1, 0.2, 0.4)"`)
	fs.Var(&f.ambient, "ambient-lighting-color", `Ambient color, e.g. "1,1,1"`)

	fs.StringVar(&f.stridePolicy, "storage-policy", "", "Storage stride policy: natural or fixed")
	fs.IntVar(&f.stride, "storage-stride", 0, "Element stride for the fixed policy")
	fs.StringVar(&f.logFile, "log-file", "", "Also write JSON logs to this file")

	fs.StringVar(&f.Scene, "scene", "", "Scene file (.yaml, .yml or .toml)")
	fs.StringVar(&f.SceneFormat, "scene-format", "", "Scene format override: yaml or toml")
	fs.StringVar(&f.Out, "out", "", "Output directory for encoded buffers")
	return f
}

// ParseFlags parses args (without the program name) into a new Flags.
func ParseFlags(name string, args []string, output io.Writer) (*Flags, error) {
	f := NewFlags(name, output)
	if err := f.set.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// Args returns the positional arguments left after the flags.
func (f *Flags) Args() []string {
	return f.set.Args()
}

// PrintDefaults writes flag usage to the FlagSet's output.
func (f *Flags) PrintDefaults() {
	f.set.PrintDefaults()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func (f *Flags) ConfigPath() string {
	return f.config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.debug {
		cfg.Logging.Level = "debug"
	}
	if f.logFile != "" {
		cfg.Logging.LogFile = f.logFile
	}
	if f.windowed {
		cfg.Window.Fullscreen = false
	}
	if f.fullscreen {
		cfg.Window.Fullscreen = true
	}
	if f.width > 0 {
		cfg.Window.Width = f.width
	}
	if f.height > 0 {
		cfg.Window.Height = f.height
	}
	if f.bounces > 0 {
		cfg.Render.MaxRayBounces = uint32(f.bounces)
	}
	if f.samples > 0 {
		cfg.Render.MaxSamplesPerPixel = uint32(f.samples)
	}
	if f.blur > 0 {
		cfg.Render.FocalBlurStrength = float32(f.blur)
	}
	if f.seed > 0 {
		cfg.Render.Seed = uint32(f.seed)
	}
	if f.strength >= 0 {
		cfg.Lighting.AmbientStrength = float32(f.strength)
	}
	if f.skybox.set {
		cfg.Lighting.SkyboxColor = f.skybox.value
	}
	if f.ambient.set {
		cfg.Lighting.AmbientColor = f.ambient.value
	}
	if f.stridePolicy != "" {
		cfg.Storage.Policy = f.stridePolicy
	}
	if f.stride > 0 {
		cfg.Storage.Stride = f.stride
	}
}
