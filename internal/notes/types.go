package notes

import (
	"errors"

	"stickyboard/internal/board"
)

var ErrUnknownEvent = errors.New("unknown event type")

// Event types accepted from the surface.
const (
	EventPointerDown = "pointerdown"
	EventPointerMove = "pointermove"
	EventPointerUp   = "pointerup"
	EventKeyUp       = "keyup"
	EventActivate    = "activate"
)

// Event is one user interaction with a note card. Width and Height are the
// card size the surface measured, sent with pointerup after a native resize.
type Event struct {
	Type   string  `json:"type"`
	Index  int     `json:"index"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Value  string  `json:"value,omitempty"`
}

// EventResult is the board after an event was applied.
type EventResult struct {
	Removed bool        `json:"removed"`
	State   board.State `json:"state"`
}

// PointerInput is the body of POST /api/notes/{index}/pointer.
type PointerInput struct {
	Type   string  `json:"type"` // down, move or up
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// TextInput is the body of PUT /api/notes/{index}/text.
type TextInput struct {
	Value string `json:"value"`
}
