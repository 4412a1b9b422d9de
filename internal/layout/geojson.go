package layout

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tany002/bhkinterior.com/internal/models"
)

// FootprintPolygon returns the rotated footprint of p as a closed ring in
// meter coordinates.
func FootprintPolygon(p models.FurniturePlacement) orb.Polygon {
	corners := Corners(p)
	ring := make(orb.Ring, 0, 5)
	for _, c := range corners {
		ring = append(ring, orb.Point{c.X, c.Y})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// ToGeoJSON exports placements as a feature collection of footprint
// polygons. Collision flags are taken from the margin-aware detector.
func ToGeoJSON(placements []models.FurniturePlacement, margin float64) *geojson.FeatureCollection {
	colliding := CollisionSet(placements, margin)

	fc := geojson.NewFeatureCollection()
	for i, p := range placements {
		feature := geojson.NewFeature(FootprintPolygon(p))
		_, hit := colliding[i]
		feature.Properties["index"] = i
		feature.Properties["item_type"] = p.ItemType
		feature.Properties["rotation_deg"] = p.RotationDeg
		feature.Properties["colliding"] = hit
		fc.Append(feature)
	}
	return fc
}

// Bounds returns the bounding box of every footprint, or an empty bound at
// the origin when there are none.
func Bounds(placements []models.FurniturePlacement) orb.Bound {
	if len(placements) == 0 {
		return orb.Bound{}
	}
	b := FootprintPolygon(placements[0]).Bound()
	for _, p := range placements[1:] {
		b = b.Union(FootprintPolygon(p).Bound())
	}
	return b
}
