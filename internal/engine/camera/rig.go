package camera

import (
	"github.com/ryanwebber/raybaby/internal/engine/scene"
	"github.com/ryanwebber/raybaby/pkg/math"
)

// Rig is the editable camera state between frames.
type Rig struct {
	Position      math.Vec3
	Rotation      math.Vec3 // XYZ Euler, degrees
	Fov           float32
	FocalDistance float32
	Near          float32
	Far           float32

	// Pitch limits in degrees
	MinPitch float32
	MaxPitch float32
}

// FromScene builds a rig from a validated scene camera.
func FromScene(c scene.Camera) Rig {
	r := Rig{
		Position: math.V3(c.Transform.Position),
		Rotation: math.V3(c.Transform.Rotation),
		Near:     c.Clipping.Near,
		Far:      c.Clipping.Far,
		MinPitch: -89,
		MaxPitch: 89,
	}
	if p := c.Lens.Perspective; p != nil {
		r.Fov = p.Fov
		r.FocalDistance = p.FocalDistance
	}
	return r
}

// Basis computes the kernel camera record for the given aspect ratio.
func (r Rig) Basis(aspect float32) Basis {
	return Compute(Input{
		Fov:           r.Fov,
		FocalDistance: r.FocalDistance,
		Aspect:        aspect,
		Position:      r.Position,
		Rotation:      r.Rotation,
		Near:          r.Near,
		Far:           r.Far,
	})
}

// Translate moves the camera by a delta expressed in its local axes.
func (r *Rig) Translate(local math.Vec3) {
	rot := math.QuatFromEulerDegrees(r.Rotation).ToMat4()
	r.Position = r.Position.Add(rot.TransformDirection(local))
}

// Turn adds yaw (about Y) and pitch (about X) in degrees. Pitch is clamped.
func (r *Rig) Turn(yaw, pitch float32) {
	r.Rotation.Y += yaw
	r.Rotation.X += pitch

	if r.Rotation.X < r.MinPitch {
		r.Rotation.X = r.MinPitch
	}
	if r.Rotation.X > r.MaxPitch {
		r.Rotation.X = r.MaxPitch
	}
}
