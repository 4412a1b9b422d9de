package layout

import (
	"math"

	"github.com/tany002/bhkinterior.com/internal/models"
)

// IsQuarterTurned reports whether a rotation is closer to 90 or 270 degrees
// than to 0 or 180, i.e. |rot mod 180| lies strictly inside (45, 135).
func IsQuarterTurned(rotationDeg float64) bool {
	r := math.Abs(math.Mod(rotationDeg, 180))
	return r > 45 && r < 135
}

// EffectiveFootprint returns the axis-aligned width and depth used for
// overlap testing. Quarter-turned placements have their dimensions swapped.
func EffectiveFootprint(p models.FurniturePlacement) (w, d float64) {
	if IsQuarterTurned(p.RotationDeg) {
		return p.DepthM, p.WidthM
	}
	return p.WidthM, p.DepthM
}

// Corners returns the four corners of the rotated footprint in meters,
// clockwise starting at the top-left of the unrotated box.
func Corners(p models.FurniturePlacement) [4]Point {
	hw, hd := p.WidthM/2, p.DepthM/2
	rad := p.RotationDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	local := [4]Point{{-hw, -hd}, {hw, -hd}, {hw, hd}, {-hw, hd}}
	var out [4]Point
	for i, c := range local {
		// y grows downward, so a positive angle turns clockwise on screen
		out[i] = Point{
			X: p.XM + c.X*cos - c.Y*sin,
			Y: p.YM + c.X*sin + c.Y*cos,
		}
	}
	return out
}

// Contains reports whether a point in meters lies inside the rotated
// footprint of p.
func Contains(p models.FurniturePlacement, pt Point) bool {
	rad := -p.RotationDeg * math.Pi / 180
	dx, dy := pt.X-p.XM, pt.Y-p.YM
	lx := dx*math.Cos(rad) - dy*math.Sin(rad)
	ly := dx*math.Sin(rad) + dy*math.Cos(rad)
	return math.Abs(lx) <= p.WidthM/2 && math.Abs(ly) <= p.DepthM/2
}

// HitTest returns the index of the topmost placement containing pt.
// Later placements render above earlier ones.
func HitTest(placements []models.FurniturePlacement, pt Point) (int, bool) {
	for i := len(placements) - 1; i >= 0; i-- {
		if Contains(placements[i], pt) {
			return i, true
		}
	}
	return -1, false
}
