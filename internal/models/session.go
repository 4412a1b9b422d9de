package models

import "time"

// SessionStatus represents the lifecycle state of an editor session.
type SessionStatus string

const (
	SessionStatusOpen      SessionStatus = "open"
	SessionStatusSaved     SessionStatus = "saved"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// GestureKind names the pointer gesture currently in flight.
type GestureKind string

const (
	GestureIdle     GestureKind = "idle"
	GestureDragging GestureKind = "dragging"
	GestureRotating GestureKind = "rotating"
)

// CanvasInfo describes the fixed real-world-to-screen mapping of a session.
type CanvasInfo struct {
	Scale        float64 `json:"scale" msgpack:"scale"`
	Meters       float64 `json:"meters" msgpack:"meters"`
	SizePx       float64 `json:"sizePx" msgpack:"sizePx"`
	Snap         float64 `json:"snap" msgpack:"snap"`
	RotationSnap float64 `json:"rotationSnap" msgpack:"rotationSnap"`
}

// EditorState is a render snapshot of an editing session.
type EditorState struct {
	SessionID       string               `json:"sessionId" msgpack:"sessionId"`
	Status          SessionStatus        `json:"status" msgpack:"status"`
	RoomType        string               `json:"roomType" msgpack:"roomType"`
	BackgroundImage *string              `json:"backgroundImage,omitempty" msgpack:"backgroundImage,omitempty"`
	LayoutID        string               `json:"layoutId" msgpack:"layoutId"`
	Placements      []FurniturePlacement `json:"placements" msgpack:"placements"`
	Selected        *int                 `json:"selected" msgpack:"selected"`
	Gesture         GestureKind          `json:"gesture" msgpack:"gesture"`
	Collisions      []int                `json:"collisions" msgpack:"collisions"`
	Canvas          CanvasInfo           `json:"canvas" msgpack:"canvas"`
}

// SessionInfo is the metadata view of a hosted session.
type SessionInfo struct {
	ID           string          `json:"id"`
	Status       SessionStatus   `json:"status"`
	RoomType     string          `json:"roomType"`
	LayoutID     string          `json:"layoutId"`
	OpenedAt     time.Time       `json:"openedAt"`
	LastAccessed time.Time       `json:"lastAccessed"`
	Saved        *LayoutProposal `json:"saved,omitempty"`
	RevisionID   string          `json:"revisionId,omitempty"`
}
