package editor

import (
	"fmt"
	"math"

	"github.com/tany002/bhkinterior.com/internal/layout"
)

// PointerDownBody starts dragging the placement at index. screen is the
// pointer position in canvas pixels. The placement becomes the selection.
func (e *Editor) PointerDownBody(index int, screen layout.Point) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	p := e.placements[index]
	pointer := e.canvas.PointToMeters(screen)

	e.selected = index
	e.gesture = Dragging{
		Index:  index,
		Offset: layout.Point{X: pointer.X - p.XM, Y: pointer.Y - p.YM},
	}
	return nil
}

// PointerDownHandle starts rotating the placement at index from its
// rotation handle. Only the selected placement shows a handle.
func (e *Editor) PointerDownHandle(index int) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	if index != e.selected {
		return ErrNotSelected
	}
	e.gesture = Rotating{Index: index}
	return nil
}

// PointerMove applies the gesture in flight for a pointer at screen pixels.
// It does nothing while idle.
func (e *Editor) PointerMove(screen layout.Point) error {
	if e.Closed() {
		return ErrClosed
	}

	switch g := e.gesture.(type) {
	case Dragging:
		if g.Index >= len(e.placements) {
			e.gesture = Idle{}
			return nil
		}
		pointer := e.canvas.PointToMeters(screen)
		x := e.canvas.SnapMeters(pointer.X - g.Offset.X)
		y := e.canvas.SnapMeters(pointer.Y - g.Offset.Y)

		p := &e.placements[g.Index]
		p.XM = e.canvas.Clamp(x)
		p.YM = e.canvas.Clamp(y)

	case Rotating:
		if g.Index >= len(e.placements) {
			e.gesture = Idle{}
			return nil
		}
		p := &e.placements[g.Index]
		center := layout.Point{X: e.canvas.ToScreen(p.XM), Y: e.canvas.ToScreen(p.YM)}
		angle := e.canvas.SnapAngle(layout.PointerAngle(center, screen))
		p.RotationDeg = math.Mod(angle, 360)
	}
	return nil
}

// PointerUp ends the gesture in flight. The selection is kept and the last
// computed position stays.
func (e *Editor) PointerUp() error {
	if e.Closed() {
		return ErrClosed
	}
	e.gesture = Idle{}
	return nil
}

// PointerLeave is PointerUp for a pointer leaving the canvas.
func (e *Editor) PointerLeave() error {
	return e.PointerUp()
}

// ClickCanvas handles a click on empty canvas: it clears the selection when
// no gesture is in flight.
func (e *Editor) ClickCanvas() error {
	if e.Closed() {
		return ErrClosed
	}
	if _, idle := e.gesture.(Idle); idle {
		e.selected = noSelection
	}
	return nil
}

// PointerEventType names a pointer event delivered by a host.
type PointerEventType string

const (
	EventDown  PointerEventType = "down"
	EventMove  PointerEventType = "move"
	EventUp    PointerEventType = "up"
	EventLeave PointerEventType = "leave"
)

// PointerTarget names what a pointer-down landed on.
type PointerTarget string

const (
	TargetBody   PointerTarget = "body"
	TargetHandle PointerTarget = "handle"
)

// PointerEvent is a host pointer event in canvas pixels. Index names the
// placement under a pointer-down; when nil the body is found by hit test and
// a handle press applies to the current selection.
type PointerEvent struct {
	Type   PointerEventType `json:"type"`
	Target PointerTarget    `json:"target,omitempty"`
	Index  *int             `json:"index,omitempty"`
	X      float64          `json:"x"`
	Y      float64          `json:"y"`
}

// HandlePointer routes a host pointer event to the matching operation.
// A pointer-down that hits nothing is a press on empty canvas and changes
// nothing; the click that follows it deselects.
func (e *Editor) HandlePointer(ev PointerEvent) error {
	screen := layout.Point{X: ev.X, Y: ev.Y}

	switch ev.Type {
	case EventDown:
		if ev.Target == TargetHandle {
			index, ok := e.Selection()
			if ev.Index != nil {
				index, ok = *ev.Index, true
			}
			if !ok {
				return e.closedErr()
			}
			return e.PointerDownHandle(index)
		}
		if ev.Index != nil {
			return e.PointerDownBody(*ev.Index, screen)
		}
		index, hit := layout.HitTest(e.placements, e.canvas.PointToMeters(screen))
		if !hit {
			return e.closedErr()
		}
		return e.PointerDownBody(index, screen)
	case EventMove:
		return e.PointerMove(screen)
	case EventUp:
		return e.PointerUp()
	case EventLeave:
		return e.PointerLeave()
	}
	return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
}

func (e *Editor) closedErr() error {
	if e.Closed() {
		return ErrClosed
	}
	return nil
}
