// Package editor implements the 2D furniture layout editing session: a
// working copy of a layout mutated by pointer gestures, catalog inserts and
// inspector edits, ending in exactly one save or cancel.
//
// An Editor is not safe for concurrent use. Hosts serialize events per
// session (see internal/session).
package editor

import (
	"errors"
	"math"

	"github.com/tany002/bhkinterior.com/internal/layout"
	"github.com/tany002/bhkinterior.com/internal/models"
)

// UserCustomizedNote is appended to the rationale of every saved layout.
const UserCustomizedNote = " (User Customized)"

var (
	ErrClosed           = errors.New("editor session is closed")
	ErrIndexOutOfRange  = errors.New("placement index out of range")
	ErrInvalidDimension = errors.New("dimension must be a positive number")
	ErrInvalidRotation  = errors.New("rotation must be a finite number")
	ErrUnknownTemplate  = errors.New("unknown catalog template")
	ErrUnknownEvent     = errors.New("unknown pointer event type")
	ErrNotSelected      = errors.New("rotation handle belongs to the selected placement only")
)

const noSelection = -1

// Options configures an editing session.
type Options struct {
	Canvas   layout.Canvas
	Catalog  *layout.Catalog
	OnSave   func(models.LayoutProposal)
	OnCancel func()
}

// Editor owns the working copy of one layout for the length of a session.
type Editor struct {
	source     models.LayoutProposal
	roomType   string
	background *string
	canvas     layout.Canvas
	catalog    *layout.Catalog
	onSave     func(models.LayoutProposal)
	onCancel   func()

	placements []models.FurniturePlacement
	selected   int
	gesture    Gesture
	status     models.SessionStatus
}

// Open starts a session on a deep copy of l. The caller's value is never
// touched again. backgroundImage is carried for display only.
func Open(l models.LayoutProposal, roomType string, backgroundImage *string, opts Options) *Editor {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = layout.DefaultCatalog()
	}

	placements := models.ClonePlacements(l.Placements)
	if placements == nil {
		placements = make([]models.FurniturePlacement, 0)
	}

	var bg *string
	if backgroundImage != nil {
		v := *backgroundImage
		bg = &v
	}

	return &Editor{
		source:     l.Clone(),
		roomType:   roomType,
		background: bg,
		canvas:     opts.Canvas.WithDefaults(),
		catalog:    catalog,
		onSave:     opts.OnSave,
		onCancel:   opts.OnCancel,
		placements: placements,
		selected:   noSelection,
		gesture:    Idle{},
		status:     models.SessionStatusOpen,
	}
}

// Canvas returns the session's coordinate mapping.
func (e *Editor) Canvas() layout.Canvas { return e.canvas }

// Catalog returns the palette offered for inserts.
func (e *Editor) Catalog() *layout.Catalog { return e.catalog }

// RoomType returns the room label the session was opened with.
func (e *Editor) RoomType() string { return e.roomType }

// LayoutID returns the identity of the layout being edited.
func (e *Editor) LayoutID() string { return e.source.LayoutID }

// Status reports whether the session is open, saved or cancelled.
func (e *Editor) Status() models.SessionStatus { return e.status }

// Closed reports whether save or cancel already ended the session.
func (e *Editor) Closed() bool { return e.status != models.SessionStatusOpen }

// Gesture returns the gesture in flight.
func (e *Editor) Gesture() Gesture { return e.gesture }

// Placements returns a copy of the working placements.
func (e *Editor) Placements() []models.FurniturePlacement {
	return models.ClonePlacements(e.placements)
}

// Selection returns the active placement index.
func (e *Editor) Selection() (int, bool) {
	if e.selected == noSelection {
		return noSelection, false
	}
	return e.selected, true
}

// Collisions returns the indices of overlapping placements, recomputed from
// the current working copy.
func (e *Editor) Collisions() []int {
	return layout.Collisions(e.placements, e.canvas.CollisionMargin)
}

// State returns a render snapshot of the session.
func (e *Editor) State() models.EditorState {
	st := models.EditorState{
		Status:          e.status,
		RoomType:        e.roomType,
		BackgroundImage: e.background,
		LayoutID:        e.source.LayoutID,
		Placements:      e.Placements(),
		Gesture:         e.gesture.Kind(),
		Collisions:      e.Collisions(),
		Canvas: models.CanvasInfo{
			Scale:        e.canvas.Scale,
			Meters:       e.canvas.Meters,
			SizePx:       e.canvas.SizePx(),
			Snap:         e.canvas.Snap,
			RotationSnap: e.canvas.RotationSnap,
		},
	}
	if st.Placements == nil {
		st.Placements = make([]models.FurniturePlacement, 0)
	}
	if idx, ok := e.Selection(); ok {
		st.Selected = &idx
	}
	return st
}

func (e *Editor) checkIndex(index int) error {
	if e.Closed() {
		return ErrClosed
	}
	if index < 0 || index >= len(e.placements) {
		return ErrIndexOutOfRange
	}
	return nil
}

// active returns the selected placement, or nil without a selection.
func (e *Editor) active() *models.FurniturePlacement {
	if e.selected == noSelection || e.selected >= len(e.placements) {
		return nil
	}
	return &e.placements[e.selected]
}

// AddFromCatalog appends t at the canvas centre with no rotation and
// selects it. It returns the new index.
func (e *Editor) AddFromCatalog(t models.FurnitureTemplate) (int, error) {
	if e.Closed() {
		return noSelection, ErrClosed
	}
	if !validDimension(t.WidthM) || !validDimension(t.DepthM) {
		return noSelection, ErrInvalidDimension
	}

	center := e.canvas.Center()
	e.placements = append(e.placements, models.FurniturePlacement{
		ItemType:    t.Label,
		XM:          center.X,
		YM:          center.Y,
		WidthM:      t.WidthM,
		DepthM:      t.DepthM,
		RotationDeg: 0,
	})
	e.selected = len(e.placements) - 1
	return e.selected, nil
}

// AddByLabel inserts the catalog template with the given label.
func (e *Editor) AddByLabel(label string) (int, error) {
	if e.Closed() {
		return noSelection, ErrClosed
	}
	t, ok := e.catalog.Lookup(label)
	if !ok {
		return noSelection, ErrUnknownTemplate
	}
	return e.AddFromCatalog(t)
}

// DeleteActive removes the selected placement and clears the selection.
// Without a selection it does nothing.
func (e *Editor) DeleteActive() error {
	if e.Closed() {
		return ErrClosed
	}
	if e.active() == nil {
		return nil
	}
	e.placements = append(e.placements[:e.selected], e.placements[e.selected+1:]...)
	e.selected = noSelection
	// indices shift, so a gesture cannot survive a delete
	e.gesture = Idle{}
	return nil
}

// SetWidth sets the active placement's width. Values that are not positive
// finite numbers are rejected and the last valid width is kept.
func (e *Editor) SetWidth(v float64) error {
	return e.setDimension(v, func(p *models.FurniturePlacement) { p.WidthM = v })
}

// SetDepth sets the active placement's depth with the same rules as SetWidth.
func (e *Editor) SetDepth(v float64) error {
	return e.setDimension(v, func(p *models.FurniturePlacement) { p.DepthM = v })
}

func (e *Editor) setDimension(v float64, apply func(*models.FurniturePlacement)) error {
	if e.Closed() {
		return ErrClosed
	}
	p := e.active()
	if p == nil {
		return nil
	}
	if !validDimension(v) {
		return ErrInvalidDimension
	}
	apply(p)
	return nil
}

// SetRotation sets the active placement's rotation, normalized into
// [0, 360). Inspector edits are not snapped.
func (e *Editor) SetRotation(deg float64) error {
	if e.Closed() {
		return ErrClosed
	}
	p := e.active()
	if p == nil {
		return nil
	}
	if !validRotation(deg) {
		return ErrInvalidRotation
	}
	p.RotationDeg = layout.NormalizeAngle(deg)
	return nil
}

// InspectorEdit holds the inspector values to change on the active
// placement. Nil fields are left alone.
type InspectorEdit struct {
	WidthM      *float64
	DepthM      *float64
	RotationDeg *float64
}

// UpdateActive applies edit to the active placement. Every present value is
// checked first, so a rejected edit leaves the placement as it was.
func (e *Editor) UpdateActive(edit InspectorEdit) error {
	if e.Closed() {
		return ErrClosed
	}
	p := e.active()
	if p == nil {
		return nil
	}
	if edit.WidthM != nil && !validDimension(*edit.WidthM) {
		return ErrInvalidDimension
	}
	if edit.DepthM != nil && !validDimension(*edit.DepthM) {
		return ErrInvalidDimension
	}
	if edit.RotationDeg != nil && !validRotation(*edit.RotationDeg) {
		return ErrInvalidRotation
	}

	if edit.WidthM != nil {
		p.WidthM = *edit.WidthM
	}
	if edit.DepthM != nil {
		p.DepthM = *edit.DepthM
	}
	if edit.RotationDeg != nil {
		p.RotationDeg = layout.NormalizeAngle(*edit.RotationDeg)
	}
	return nil
}

// BumpRotation turns the active placement a further 90 degrees.
func (e *Editor) BumpRotation() error {
	if e.Closed() {
		return ErrClosed
	}
	p := e.active()
	if p == nil {
		return nil
	}
	p.RotationDeg = layout.NormalizeAngle(p.RotationDeg + 90)
	return nil
}

// Save emits the edited layout through OnSave and ends the session.
// Identity and upstream fields pass through; only placements, the
// rationale note and auto_fixed change.
func (e *Editor) Save() (models.LayoutProposal, error) {
	if e.Closed() {
		return models.LayoutProposal{}, ErrClosed
	}

	out := e.source.Clone()
	out.Placements = models.ClonePlacements(e.placements)
	out.ShortRationale = e.source.ShortRationale + UserCustomizedNote
	fixed := true
	out.AutoFixed = &fixed

	e.close(models.SessionStatusSaved)
	if e.onSave != nil {
		e.onSave(out.Clone())
	}
	return out, nil
}

// Cancel discards the working copy, fires OnCancel and ends the session.
func (e *Editor) Cancel() error {
	if e.Closed() {
		return ErrClosed
	}
	e.close(models.SessionStatusCancelled)
	if e.onCancel != nil {
		e.onCancel()
	}
	return nil
}

func (e *Editor) close(status models.SessionStatus) {
	e.status = status
	e.placements = nil
	e.selected = noSelection
	e.gesture = Idle{}
}

func validDimension(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func validRotation(deg float64) bool {
	return !math.IsNaN(deg) && !math.IsInf(deg, 0)
}
