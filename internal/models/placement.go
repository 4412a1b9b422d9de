// Package models contains domain types for the room layout editor.
package models

// Material tags accepted on a placement. Unknown tags pass through untouched.
const (
	MaterialFabric  = "fabric"
	MaterialWood    = "wood"
	MaterialMetal   = "metal"
	MaterialGlass   = "glass"
	MaterialLeather = "leather"
)

// FurniturePlacement is one piece of furniture in a room layout.
// Positions are the footprint centre in meters, origin top-left; rotation is
// clockwise degrees with 0 pointing up.
type FurniturePlacement struct {
	ItemType    string   `json:"item_type" msgpack:"item_type"`
	XM          float64  `json:"x_m" msgpack:"x_m"`
	YM          float64  `json:"y_m" msgpack:"y_m"`
	RotationDeg float64  `json:"rotation_deg" msgpack:"rotation_deg"`
	WidthM      float64  `json:"width_m" msgpack:"width_m"`
	DepthM      float64  `json:"depth_m" msgpack:"depth_m"`
	ElevationM  *float64 `json:"elevation_m,omitempty" msgpack:"elevation_m,omitempty"`
	Material    *string  `json:"material,omitempty" msgpack:"material,omitempty"`
}

// Clone returns a copy that shares no memory with p.
func (p FurniturePlacement) Clone() FurniturePlacement {
	out := p
	if p.ElevationM != nil {
		v := *p.ElevationM
		out.ElevationM = &v
	}
	if p.Material != nil {
		v := *p.Material
		out.Material = &v
	}
	return out
}

// LayoutProposal is the ordered set of placements for one room plus the
// metadata produced upstream by layout generation.
type LayoutProposal struct {
	LayoutID       string               `json:"layout_id" msgpack:"layout_id"`
	StyleToken     string               `json:"style_token" msgpack:"style_token"`
	Placements     []FurniturePlacement `json:"placements" msgpack:"placements"`
	Walkways       []string             `json:"walkways" msgpack:"walkways"`
	ConstraintsOK  bool                 `json:"constraints_ok" msgpack:"constraints_ok"`
	ShortRationale string               `json:"short_rationale" msgpack:"short_rationale"`
	Errors         []string             `json:"errors,omitempty" msgpack:"errors,omitempty"`
	AutoFixed      *bool                `json:"auto_fixed,omitempty" msgpack:"auto_fixed,omitempty"`
}

// ClonePlacements deep-copies a placement slice. A nil input stays nil.
func ClonePlacements(in []FurniturePlacement) []FurniturePlacement {
	if in == nil {
		return nil
	}
	out := make([]FurniturePlacement, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// Clone returns a deep copy of the proposal.
func (l LayoutProposal) Clone() LayoutProposal {
	out := l
	out.Placements = ClonePlacements(l.Placements)
	if l.Walkways != nil {
		out.Walkways = append([]string(nil), l.Walkways...)
	}
	if l.Errors != nil {
		out.Errors = append([]string(nil), l.Errors...)
	}
	if l.AutoFixed != nil {
		v := *l.AutoFixed
		out.AutoFixed = &v
	}
	return out
}
