// Package controls maps live-edit actions onto frame state edits.
package controls

import (
	"github.com/ryanwebber/raybaby/internal/engine/frame"
	"github.com/ryanwebber/raybaby/pkg/math"
)

// Action is a user intent decoupled from any input device.
type Action int

const (
	None Action = iota
	MoveForward
	MoveBack
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	TurnLeft
	TurnRight
	TurnUp
	TurnDown
	AmbientUp
	AmbientDown
)

var actionNames = [...]string{
	None:        "none",
	MoveForward: "move-forward",
	MoveBack:    "move-back",
	MoveLeft:    "move-left",
	MoveRight:   "move-right",
	MoveUp:      "move-up",
	MoveDown:    "move-down",
	TurnLeft:    "turn-left",
	TurnRight:   "turn-right",
	TurnUp:      "turn-up",
	TurnDown:    "turn-down",
	AmbientUp:   "ambient-up",
	AmbientDown: "ambient-down",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Speeds scales each action.
type Speeds struct {
	Move    float32 // world units per press
	Turn    float32 // degrees per press
	Ambient float32 // strength per press
}

// DefaultSpeeds returns the speeds used by the render command.
func DefaultSpeeds() Speeds {
	return Speeds{Move: 0.5, Turn: 2.5, Ambient: 0.02}
}

// Edit returns the frame edit for an action, or nil for None.
func (s Speeds) Edit(a Action) frame.Edit {
	switch a {
	case MoveForward:
		return frame.MoveCamera(math.Vec3{Z: -s.Move})
	case MoveBack:
		return frame.MoveCamera(math.Vec3{Z: s.Move})
	case MoveLeft:
		return frame.MoveCamera(math.Vec3{X: -s.Move})
	case MoveRight:
		return frame.MoveCamera(math.Vec3{X: s.Move})
	case MoveUp:
		return frame.MoveCamera(math.Vec3{Y: s.Move})
	case MoveDown:
		return frame.MoveCamera(math.Vec3{Y: -s.Move})
	case TurnLeft:
		return frame.TurnCamera(s.Turn, 0)
	case TurnRight:
		return frame.TurnCamera(-s.Turn, 0)
	case TurnUp:
		return frame.TurnCamera(0, s.Turn)
	case TurnDown:
		return frame.TurnCamera(0, -s.Turn)
	case AmbientUp:
		return frame.AdjustAmbient(s.Ambient)
	case AmbientDown:
		return frame.AdjustAmbient(-s.Ambient)
	default:
		return nil
	}
}

// Apply turns actions into one batch of edits on st. It reports whether
// anything changed, in which case the frame counter is back at 0.
func (s Speeds) Apply(st *frame.State, actions ...Action) bool {
	var edits []frame.Edit
	for _, a := range actions {
		if e := s.Edit(a); e != nil {
			edits = append(edits, e)
		}
	}
	if len(edits) == 0 {
		return false
	}
	st.Apply(edits...)
	return true
}
