// Package config handles configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/ryanwebber/raybaby/pkg/layout"
)

// Config holds all settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Render   RenderConfig   `yaml:"render"`
	Lighting LightingConfig `yaml:"lighting"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// RenderConfig holds the kernel's render parameters.
type RenderConfig struct {
	MaxRayBounces      uint32  `yaml:"max_ray_bounces"`
	MaxSamplesPerPixel uint32  `yaml:"max_samples_per_pixel"`
	FocalBlurStrength  float32 `yaml:"focal_blur_strength"`
	Seed               uint32  `yaml:"seed"` // 0 picks a random seed per run
}

// LightingConfig holds the initial lighting.
type LightingConfig struct {
	SkyboxColor     Color   `yaml:"skybox_color"`
	AmbientColor    Color   `yaml:"ambient_color"`
	AmbientStrength float32 `yaml:"ambient_strength"`
}

// StorageConfig selects the storage array stride policy.
type StorageConfig struct {
	Policy string `yaml:"policy"` // natural or fixed
	Stride int    `yaml:"stride"` // used by fixed
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      960,
			Height:     540,
			Fullscreen: false,
			VSync:      true,
		},
		Render: RenderConfig{
			MaxRayBounces:      30,
			MaxSamplesPerPixel: 4,
			FocalBlurStrength:  200,
		},
		Lighting: LightingConfig{
			SkyboxColor:     Color{0, 0, 0},
			AmbientColor:    Color{1, 1, 1},
			AmbientStrength: 0.1,
		},
		Storage: StorageConfig{
			Policy: "natural",
			Stride: 32,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

var (
	ErrInvalidWindow  = errors.New("invalid window size")
	ErrInvalidStorage = errors.New("invalid storage settings")
)

// Validate checks values a file or flag could have broken.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidWindow, c.Window.Width, c.Window.Height)
	}
	policy, err := layout.ParseStridePolicy(c.Storage.Policy)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStorage, err)
	}
	if policy == layout.FixedStride && c.Storage.Stride <= 0 {
		return fmt.Errorf("%w: fixed stride %d is not positive", ErrInvalidStorage, c.Storage.Stride)
	}
	return nil
}

// StorageCodec builds the storage codec the config selects.
func (c *Config) StorageCodec() (*layout.StorageCodec, error) {
	policy, err := layout.ParseStridePolicy(c.Storage.Policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStorage, err)
	}
	return layout.NewStorageCodec(layout.WithPolicy(policy, c.Storage.Stride))
}
