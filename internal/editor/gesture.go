package editor

import (
	"github.com/tany002/bhkinterior.com/internal/layout"
	"github.com/tany002/bhkinterior.com/internal/models"
)

// Gesture is the pointer gesture in flight. It is one of Idle, Dragging or
// Rotating; no other implementations exist.
type Gesture interface {
	Kind() models.GestureKind
	gesture()
}

// Idle means no pointer button is held over a placement.
type Idle struct{}

// Dragging moves the placement at Index. Offset is the pointer position
// minus the placement centre, in meters, captured on pointer-down.
type Dragging struct {
	Index  int
	Offset layout.Point
}

// Rotating turns the placement at Index to face the pointer.
type Rotating struct {
	Index int
}

func (Idle) Kind() models.GestureKind     { return models.GestureIdle }
func (Dragging) Kind() models.GestureKind { return models.GestureDragging }
func (Rotating) Kind() models.GestureKind { return models.GestureRotating }

func (Idle) gesture()     {}
func (Dragging) gesture() {}
func (Rotating) gesture() {}
