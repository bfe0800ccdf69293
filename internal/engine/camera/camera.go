// Package camera derives the GPU camera basis from a lens description and
// keeps the live-editable camera rig.
package camera

import (
	_ "embed"

	"github.com/chewxy/math32"

	"github.com/ryanwebber/raybaby/pkg/layout"
	"github.com/ryanwebber/raybaby/pkg/math"
)

// BasisWGSL declares the kernel-side Camera struct.
//
//go:embed assets/camera.wgsl
var BasisWGSL string

// Basis is the camera record the kernel reads.
//
//	offset  field
//	0       focal_plane     vec3 (width, height, focal distance)
//	16      world_position  vec3
//	32      local_to_world  mat4 (rotation only)
//	96      near_clip       f32
//	100     far_clip        f32
//	size 112, align 16
type Basis struct {
	FocalPlane    math.Vec3
	WorldPosition math.Vec3
	LocalToWorld  math.Mat4
	NearClip      float32
	FarClip       float32
}

// Shape implements layout.Shaper.
func (b Basis) Shape() layout.Value {
	return layout.Struct{
		layout.F("focal_plane", layout.Vec3(b.FocalPlane.Array())),
		layout.F("world_position", layout.Vec3(b.WorldPosition.Array())),
		layout.F("local_to_world", layout.Mat4(b.LocalToWorld)),
		layout.F("near_clip", layout.F32(b.NearClip)),
		layout.F("far_clip", layout.F32(b.FarClip)),
	}
}

// Input is everything Compute needs.
type Input struct {
	Fov           float32 // vertical, degrees
	FocalDistance float32
	Aspect        float32 // width / height
	Position      math.Vec3
	Rotation      math.Vec3 // XYZ Euler, degrees
	Near          float32
	Far           float32
}

// Compute derives the focal plane extent and the rotation-only
// local-to-world matrix. Non-finite inputs pass through unchanged.
func Compute(in Input) Basis {
	height := 2 * math32.Tan(math.Radians(in.Fov)/2) * in.FocalDistance
	width := height * in.Aspect

	return Basis{
		FocalPlane:    math.Vec3{X: width, Y: height, Z: in.FocalDistance},
		WorldPosition: in.Position,
		LocalToWorld:  math.QuatFromEulerDegrees(in.Rotation).ToMat4(),
		NearClip:      in.Near,
		FarClip:       in.Far,
	}
}
