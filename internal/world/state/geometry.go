package state

import "math"

// Vec2 represents a point on the horizontal plane.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vec3 represents a world position. Z is the vertical axis.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Planar drops the vertical component.
func (v Vec3) Planar() Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}

// Dist2D returns the horizontal distance between two positions.
func (v Vec3) Dist2D(other Vec3) float64 {
	return math.Hypot(other.X-v.X, other.Y-v.Y)
}

// Dist3D returns the full euclidean distance between two positions.
func (v Vec3) Dist3D(other Vec3) float64 {
	dx := other.X - v.X
	dy := other.Y - v.Y
	dz := other.Z - v.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
