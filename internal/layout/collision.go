package layout

import (
	"math"

	"github.com/tany002/bhkinterior.com/internal/models"
)

// Overlaps reports whether two placements overlap under the axis-aligned
// approximation, tolerating up to margin meters of interpenetration on
// each axis.
func Overlaps(a, b models.FurniturePlacement, margin float64) bool {
	aw, ad := EffectiveFootprint(a)
	bw, bd := EffectiveFootprint(b)

	overlapX := math.Abs(a.XM-b.XM) < (aw+bw)/2-margin
	overlapY := math.Abs(a.YM-b.YM) < (ad+bd)/2-margin
	return overlapX && overlapY
}

// Collisions returns the sorted indices of every placement overlapping at
// least one other placement. It is recomputed from scratch on every call.
func Collisions(placements []models.FurniturePlacement, margin float64) []int {
	hit := make([]bool, len(placements))
	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			if Overlaps(placements[i], placements[j], margin) {
				hit[i] = true
				hit[j] = true
			}
		}
	}

	out := make([]int, 0)
	for i, h := range hit {
		if h {
			out = append(out, i)
		}
	}
	return out
}

// CollisionSet is Collisions as a lookup set.
func CollisionSet(placements []models.FurniturePlacement, margin float64) map[int]struct{} {
	set := make(map[int]struct{})
	for _, i := range Collisions(placements, margin) {
		set[i] = struct{}{}
	}
	return set
}
