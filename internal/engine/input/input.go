// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/ryanwebber/raybaby/internal/engine/controls"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventAction
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Action controls.Action
	Width  int
	Height int
}

// Bindings maps keys to live-edit actions. Held keys repeat.
var Bindings = map[sdl.Scancode]controls.Action{
	sdl.SCANCODE_W:            controls.MoveForward,
	sdl.SCANCODE_S:            controls.MoveBack,
	sdl.SCANCODE_A:            controls.MoveLeft,
	sdl.SCANCODE_D:            controls.MoveRight,
	sdl.SCANCODE_E:            controls.MoveUp,
	sdl.SCANCODE_Q:            controls.MoveDown,
	sdl.SCANCODE_LEFT:         controls.TurnLeft,
	sdl.SCANCODE_RIGHT:        controls.TurnRight,
	sdl.SCANCODE_UP:           controls.TurnUp,
	sdl.SCANCODE_DOWN:         controls.TurnDown,
	sdl.SCANCODE_RIGHTBRACKET: controls.AmbientUp,
	sdl.SCANCODE_LEFTBRACKET:  controls.AmbientDown,
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				i.events = append(i.events, Event{Type: EventQuit})
				return true
			}
			if a, ok := Bindings[e.Keysym.Scancode]; ok {
				i.events = append(i.events, Event{Type: EventAction, Action: a})
			}
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Actions returns the live-edit actions from the last Update.
func (i *Input) Actions() []controls.Action {
	var out []controls.Action
	for _, e := range i.events {
		if e.Type == EventAction {
			out = append(out, e.Action)
		}
	}
	return out
}
