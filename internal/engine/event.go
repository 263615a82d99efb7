package engine

import "LocalInk/internal/state"

// Mode is the input state of the engine.
type Mode int

const (
	Idle Mode = iota
	Drawing
	Erasing
	Scaling
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Erasing:
		return "erasing"
	case Scaling:
		return "scaling"
	}
	return "unknown"
}

// ToolType is the kind of device that produced a pointer event.
type ToolType int

const (
	Finger ToolType = iota
	Stylus
	EraserTip
	Mouse
)

// Action is what happened to the pointer.
type Action int

const (
	Down Action = iota
	Move
	Up
	Cancel
	// ButtonDown is a pen contact with the side button held. It switches the
	// engine into erasing until the next plain Down.
	ButtonDown
)

// Event is one pointer sample in surface pixel coordinates. Pointers holds
// every active contact for multi-finger events; when empty the event itself
// is the only contact.
type Event struct {
	Tool     ToolType
	Action   Action
	X, Y     float64
	Pressure float64
	Pointers []state.Point
}

// ToolKind is the tool selected in the host's toolbar.
type ToolKind int

const (
	Pen ToolKind = iota
	Eraser
)

func (k ToolKind) String() string {
	if k == Eraser {
		return "eraser"
	}
	return "pen"
}
