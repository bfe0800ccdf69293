package frame

import (
	"github.com/ryanwebber/raybaby/internal/engine/camera"
	"github.com/ryanwebber/raybaby/pkg/math"
)

// State is the render state carried through the frame loop. Any write to
// the camera or lighting goes through Edit, which restarts accumulation by
// setting the frame counter to 0.
type State struct {
	rig      camera.Rig
	lighting Lighting
	params   Params
	aspect   float32
	frame    uint32
}

// NewState creates a state at frame 0.
func NewState(rig camera.Rig, light Lighting, p Params, aspect float32) *State {
	return &State{rig: rig, lighting: light, params: p, aspect: aspect}
}

// Edit is a mutation of scene-affecting state.
type Edit func(rig *camera.Rig, light *Lighting, aspect *float32)

// Apply runs the edits and resets the frame counter.
func (s *State) Apply(edits ...Edit) {
	for _, e := range edits {
		e(&s.rig, &s.lighting, &s.aspect)
	}
	s.frame = 0
}

// Frame returns the counter the next Advance will report.
func (s *State) Frame() uint32 {
	return s.frame
}

// Rig returns a copy of the camera rig.
func (s *State) Rig() camera.Rig {
	return s.rig
}

// Lighting returns a copy of the lighting.
func (s *State) Lighting() Lighting {
	return s.lighting
}

// Params returns the fixed render parameters.
func (s *State) Params() Params {
	return s.params
}

// Aspect returns the viewport aspect ratio.
func (s *State) Aspect() float32 {
	return s.aspect
}

// Globals builds the record for the current frame without advancing.
func (s *State) Globals() Globals {
	return Build(s.rig.Basis(s.aspect), s.lighting, s.params, s.frame)
}

// Advance returns the globals for this frame and moves to the next one.
func (s *State) Advance() Globals {
	g := s.Globals()
	s.frame++
	return g
}

// MoveCamera translates the camera in its local axes.
func MoveCamera(local math.Vec3) Edit {
	return func(rig *camera.Rig, _ *Lighting, _ *float32) {
		rig.Translate(local)
	}
}

// TurnCamera yaws and pitches the camera, in degrees.
func TurnCamera(yaw, pitch float32) Edit {
	return func(rig *camera.Rig, _ *Lighting, _ *float32) {
		rig.Turn(yaw, pitch)
	}
}

// SetCamera replaces the whole rig, e.g. after a scene reload.
func SetCamera(r camera.Rig) Edit {
	return func(rig *camera.Rig, _ *Lighting, _ *float32) {
		*rig = r
	}
}

// SetAspect changes the viewport aspect ratio.
func SetAspect(a float32) Edit {
	return func(_ *camera.Rig, _ *Lighting, aspect *float32) {
		*aspect = a
	}
}

// AdjustAmbient adds delta to the ambient strength, clamped at 0.
func AdjustAmbient(delta float32) Edit {
	return func(_ *camera.Rig, light *Lighting, _ *float32) {
		light.AmbientStrength = max(0, light.AmbientStrength+delta)
	}
}
