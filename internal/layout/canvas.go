// Package layout holds the pure geometry of the room planner: the fixed
// meter/pixel canvas, snapping, footprints, collision detection, the
// furniture catalog and the handoff exports.
package layout

import "math"

// Defaults for the planning canvas.
const (
	DefaultScale           = 50.0 // pixels per meter
	DefaultCanvasMeters    = 8.0
	DefaultSnap            = 0.1 // meters
	DefaultRotationSnap    = 15.0
	DefaultCollisionMargin = 0.05 // meters
)

// Point is a 2D coordinate, in meters or pixels depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Canvas is the square editing surface and its quantization settings.
type Canvas struct {
	Scale           float64
	Meters          float64
	Snap            float64
	RotationSnap    float64
	CollisionMargin float64
}

// DefaultCanvas returns the 8x8 m canvas at 50 px/m with 10 cm snapping.
func DefaultCanvas() Canvas {
	return Canvas{
		Scale:           DefaultScale,
		Meters:          DefaultCanvasMeters,
		Snap:            DefaultSnap,
		RotationSnap:    DefaultRotationSnap,
		CollisionMargin: DefaultCollisionMargin,
	}
}

// WithDefaults fills zero or negative fields from DefaultCanvas.
func (c Canvas) WithDefaults() Canvas {
	d := DefaultCanvas()
	if c.Scale <= 0 {
		c.Scale = d.Scale
	}
	if c.Meters <= 0 {
		c.Meters = d.Meters
	}
	if c.Snap <= 0 {
		c.Snap = d.Snap
	}
	if c.RotationSnap <= 0 {
		c.RotationSnap = d.RotationSnap
	}
	if c.CollisionMargin < 0 {
		c.CollisionMargin = d.CollisionMargin
	}
	return c
}

// SizePx returns the canvas edge length in pixels.
func (c Canvas) SizePx() float64 {
	return c.Meters * c.Scale
}

// Center returns the canvas midpoint in meters.
func (c Canvas) Center() Point {
	return Point{X: c.Meters / 2, Y: c.Meters / 2}
}

// ToScreen converts meters to pixels.
func (c Canvas) ToScreen(m float64) float64 {
	return m * c.Scale
}

// ToMeters converts pixels to meters.
func (c Canvas) ToMeters(px float64) float64 {
	return px / c.Scale
}

// PointToMeters converts a canvas-relative pixel point to meters.
func (c Canvas) PointToMeters(p Point) Point {
	return Point{X: c.ToMeters(p.X), Y: c.ToMeters(p.Y)}
}

// SnapMeters rounds v to the nearest multiple of the position quantum.
func (c Canvas) SnapMeters(v float64) float64 {
	return Snap(v, c.Snap)
}

// SnapAngle rounds a in degrees to the nearest rotation quantum.
func (c Canvas) SnapAngle(a float64) float64 {
	return Snap(a, c.RotationSnap)
}

// Clamp bounds v to [0, Meters].
func (c Canvas) Clamp(v float64) float64 {
	return math.Max(0, math.Min(c.Meters, v))
}

// Snap rounds v to the nearest multiple of quantum.
func Snap(v, quantum float64) float64 {
	return math.Round(v/quantum) * quantum
}

// NormalizeAngle maps any angle in degrees into [0, 360).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// PointerAngle returns the clockwise angle from "up" of the vector from
// center to pointer, both in screen space, in [0, 360).
func PointerAngle(center, pointer Point) float64 {
	d := pointer.Sub(center)
	deg := math.Atan2(d.Y, d.X)*180/math.Pi + 90
	if deg < 0 {
		deg += 360
	}
	return deg
}
