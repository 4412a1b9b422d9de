package models

import "time"

// LayoutRevision is a persisted copy of a layout saved from an editor session.
type LayoutRevision struct {
	ID             string         `json:"id"`
	LayoutID       string         `json:"layoutId"`
	SessionID      string         `json:"sessionId"`
	RoomType       string         `json:"roomType"`
	PlacementCount int            `json:"placementCount"`
	SavedAt        time.Time      `json:"savedAt"`
	Layout         LayoutProposal `json:"layout"`
}

// Clone returns a deep copy of the revision.
func (r *LayoutRevision) Clone() *LayoutRevision {
	out := *r
	out.Layout = r.Layout.Clone()
	return &out
}
