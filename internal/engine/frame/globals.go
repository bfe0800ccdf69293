// Package frame builds the per-frame globals record and owns the render
// state that live edits mutate between frames.
package frame

import (
	_ "embed"

	"github.com/ryanwebber/raybaby/internal/engine/camera"
	"github.com/ryanwebber/raybaby/pkg/layout"
	"github.com/ryanwebber/raybaby/pkg/math"
)

//go:embed assets/globals.wgsl
var GlobalsWGSL string

// Globals is the uniform block bound at binding 0.
//
//	offset  field
//	0       camera                 camera.Basis (112 bytes)
//	112     frame                  u32
//	116     random_seed            u32
//	120     max_ray_bounces        u32
//	124     max_samples_per_pixel  u32
//	128     skybox_color           vec3
//	144     ambient_color          vec3
//	160     ambient_strength       f32
//	164     focal_blur_strength    f32
//	size 176, align 16
type Globals struct {
	Camera             camera.Basis
	Frame              uint32
	RandomSeed         uint32
	MaxRayBounces      uint32
	MaxSamplesPerPixel uint32
	SkyboxColor        math.Vec3
	AmbientColor       math.Vec3
	AmbientStrength    float32
	FocalBlurStrength  float32
}

// Shape implements layout.Shaper.
func (g Globals) Shape() layout.Value {
	return layout.Struct{
		layout.F("camera", g.Camera.Shape()),
		layout.F("frame", layout.U32(g.Frame)),
		layout.F("random_seed", layout.U32(g.RandomSeed)),
		layout.F("max_ray_bounces", layout.U32(g.MaxRayBounces)),
		layout.F("max_samples_per_pixel", layout.U32(g.MaxSamplesPerPixel)),
		layout.F("skybox_color", layout.Vec3(g.SkyboxColor.Array())),
		layout.F("ambient_color", layout.Vec3(g.AmbientColor.Array())),
		layout.F("ambient_strength", layout.F32(g.AmbientStrength)),
		layout.F("focal_blur_strength", layout.F32(g.FocalBlurStrength)),
	}
}

// Encode returns the uniform block bytes.
func (g Globals) Encode() []byte {
	return layout.EncodeUniform(g.Shape())
}

// Lighting is the editable lighting state.
type Lighting struct {
	SkyboxColor     math.Vec3
	AmbientColor    math.Vec3
	AmbientStrength float32
}

// Params are the render parameters that stay fixed for a run.
type Params struct {
	RandomSeed         uint32
	MaxRayBounces      uint32
	MaxSamplesPerPixel uint32
	FocalBlurStrength  float32
}

// Build assembles a Globals record.
func Build(basis camera.Basis, light Lighting, p Params, frame uint32) Globals {
	return Globals{
		Camera:             basis,
		Frame:              frame,
		RandomSeed:         p.RandomSeed,
		MaxRayBounces:      p.MaxRayBounces,
		MaxSamplesPerPixel: p.MaxSamplesPerPixel,
		SkyboxColor:        light.SkyboxColor,
		AmbientColor:       light.AmbientColor,
		AmbientStrength:    light.AmbientStrength,
		FocalBlurStrength:  p.FocalBlurStrength,
	}
}
