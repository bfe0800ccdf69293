package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ryanwebber/raybaby/pkg/layout"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Width != 960 {
		t.Errorf("expected width 960, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 540 {
		t.Errorf("expected height 540, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	// Test render defaults
	if cfg.Render.MaxRayBounces != 30 {
		t.Errorf("expected 30 bounces, got %d", cfg.Render.MaxRayBounces)
	}
	if cfg.Render.MaxSamplesPerPixel != 4 {
		t.Errorf("expected 4 samples, got %d", cfg.Render.MaxSamplesPerPixel)
	}
	if cfg.Render.FocalBlurStrength != 200 {
		t.Errorf("expected blur 200, got %f", cfg.Render.FocalBlurStrength)
	}

	// Test lighting defaults
	if cfg.Lighting.SkyboxColor != (Color{0, 0, 0}) {
		t.Errorf("expected black skybox, got %v", cfg.Lighting.SkyboxColor)
	}
	if cfg.Lighting.AmbientColor != (Color{1, 1, 1}) {
		t.Errorf("expected white ambient, got %v", cfg.Lighting.AmbientColor)
	}
	if cfg.Lighting.AmbientStrength != 0.1 {
		t.Errorf("expected ambient strength 0.1, got %f", cfg.Lighting.AmbientStrength)
	}

	if cfg.Storage.Policy != "natural" {
		t.Errorf("expected natural policy, got %s", cfg.Storage.Policy)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

render:
  max_ray_bounces: 8
  max_samples_per_pixel: 16
  focal_blur_strength: 50
  seed: 42

lighting:
  skybox_color: [0.2, 0.4, 0.8]
  ambient_strength: 0.5

storage:
  policy: fixed
  stride: 64

logging:
  level: "debug"
  log_file: "raybaby.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Render.MaxRayBounces != 8 {
		t.Errorf("expected 8 bounces, got %d", cfg.Render.MaxRayBounces)
	}
	if cfg.Render.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Render.Seed)
	}

	if cfg.Lighting.SkyboxColor != (Color{0.2, 0.4, 0.8}) {
		t.Errorf("unexpected skybox %v", cfg.Lighting.SkyboxColor)
	}
	// Missing keys keep their defaults
	if cfg.Lighting.AmbientColor != (Color{1, 1, 1}) {
		t.Errorf("expected default ambient color, got %v", cfg.Lighting.AmbientColor)
	}

	codec, err := cfg.StorageCodec()
	if err != nil {
		t.Fatalf("StorageCodec: %v", err)
	}
	if codec.Policy() != layout.FixedStride {
		t.Errorf("expected fixed policy, got %v", codec.Policy())
	}

	if cfg.Logging.LogFile != "raybaby.log" {
		t.Errorf("expected log file 'raybaby.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/raybaby.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create raybaby.yaml in current directory
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find raybaby.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"--debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "fullscreen flag",
			args: []string{"--fullscreen"},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
		},
		{
			name: "width and height flags",
			args: []string{"--width", "2560", "--height", "1440"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
		},
		{
			name: "render flags",
			args: []string{"--max-ray-bounces-per-ray", "5", "--max-samples-per-pixel", "1", "--focal-blur-strength", "10", "--seed", "7"},
			verify: func(t *testing.T, cfg *Config) {
				r := cfg.Render
				if r.MaxRayBounces != 5 || r.MaxSamplesPerPixel != 1 || r.FocalBlurStrength != 10 || r.Seed != 7 {
					t.Errorf("unexpected render config %+v", r)
				}
			},
		},
		{
			name: "color flags",
			args: []string{"--skybox-color", "(0.1, 0.2, 0.3)", "--ambient-lighting-color", "0,1,0", "--ambient-lighting-strength", "0"},
			verify: func(t *testing.T, cfg *Config) {
				l := cfg.Lighting
				if l.SkyboxColor != (Color{0.1, 0.2, 0.3}) {
					t.Errorf("unexpected skybox %v", l.SkyboxColor)
				}
				if l.AmbientColor != (Color{0, 1, 0}) {
					t.Errorf("unexpected ambient %v", l.AmbientColor)
				}
				if l.AmbientStrength != 0 {
					t.Errorf("expected ambient strength 0, got %f", l.AmbientStrength)
				}
			},
		},
		{
			name: "storage flags",
			args: []string{"--storage-policy", "fixed", "--storage-stride", "48"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Storage.Policy != "fixed" || cfg.Storage.Stride != 48 {
					t.Errorf("unexpected storage config %+v", cfg.Storage)
				}
			},
		},
		{
			name: "no flags keeps defaults",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Lighting.AmbientStrength != 0.1 {
					t.Errorf("expected default ambient strength, got %f", cfg.Lighting.AmbientStrength)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, err := ParseFlags("test", tt.args, io.Discard)
			if err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}

			cfg := Default()
			flags.apply(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestParseFlagsPositional(t *testing.T) {
	flags, err := ParseFlags("test", []string{"--scene", "s.yaml", "--out", "bin", "extra"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if flags.Scene != "s.yaml" || flags.Out != "bin" {
		t.Errorf("unexpected scene/out %q %q", flags.Scene, flags.Out)
	}
	if args := flags.Args(); len(args) != 1 || args[0] != "extra" {
		t.Errorf("unexpected positional args %v", args)
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, s := range []string{"", "1,2", "(a, b, c)", "1,2,3,4"} {
		if _, err := ParseColor(s); err == nil {
			t.Errorf("ParseColor(%q) should fail", s)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}

	cfg = Default()
	cfg.Storage.Policy = "sparse"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidStorage) {
		t.Errorf("expected ErrInvalidStorage, got %v", err)
	}

	cfg = Default()
	cfg.Storage.Policy = "fixed"
	cfg.Storage.Stride = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidStorage) {
		t.Errorf("expected ErrInvalidStorage for stride 0, got %v", err)
	}

	cfg.Storage.Stride = 30
	if err := cfg.Validate(); err != nil {
		t.Errorf("stride 30 should be accepted, got %v", err)
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	flags, err := ParseFlags("test", []string{"--config", configPath, "--width", "1920"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	// Load config
	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Lighting.SkyboxColor = Color{0.5, 0.25, 1}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Lighting.SkyboxColor != cfg.Lighting.SkyboxColor {
		t.Errorf("skybox %v, want %v", loaded.Lighting.SkyboxColor, cfg.Lighting.SkyboxColor)
	}
}

func TestSaveRequested(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	flags, err := ParseFlags("test", []string{"--config", path}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if got, err := SaveRequested(flags, Default()); err != nil || got != "" {
		t.Fatalf("without --save-config: got %q, %v", got, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("config written without --save-config")
	}

	flags, err = ParseFlags("test", []string{"--config", path, "--save-config", "--max-ray-bounces-per-ray", "7"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	cfg := Default()
	flags.apply(cfg)
	got, err := SaveRequested(flags, cfg)
	if err != nil {
		t.Fatalf("SaveRequested: %v", err)
	}
	if got != path {
		t.Errorf("saved to %q, want %q", got, path)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Render.MaxRayBounces != 7 {
		t.Errorf("saved bounces %d, want 7", loaded.Render.MaxRayBounces)
	}
}

func TestSaveRequestedConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG config dir only applies on linux")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	flags, err := ParseFlags("test", []string{"--save-config"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	got, err := SaveRequested(flags, Default())
	if err != nil {
		t.Fatalf("SaveRequested: %v", err)
	}
	want := filepath.Join(dir, "raybaby", FileName)
	if got != want {
		t.Errorf("saved to %q, want %q", got, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}
