package movement

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	// ContactDistance is the gap left between bounding radii at a melee
	// contact point.
	ContactDistance = 0.5
	// FacingArc is the tolerance used when checking whether an arrived owner
	// already faces its target.
	FacingArc = 0.01
)

func planar(v Vec3) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// AngleTo returns the horizontal angle from one position towards another.
func AngleTo(from, to Vec3) float64 {
	return normalizeAngle(planar(to).Sub(planar(from)).ToAngle())
}

// NearPoint returns the point at distance from origin along angle, keeping
// the origin's height.
func NearPoint(origin Vec3, distance, angle float64) Vec3 {
	offset := cp.ForAngle(angle).Mult(distance)
	p := planar(origin).Add(offset)
	return Vec3{X: p.X, Y: p.Y, Z: origin.Z}
}

// ContactPoint returns the melee point on target's perimeter facing owner.
func ContactPoint(target, owner Entity) Vec3 {
	distance := target.BoundingRadius() + owner.BoundingRadius() + ContactDistance
	return NearPoint(target.Position(), distance, AngleTo(target.Position(), owner.Position()))
}

// ClosePoint returns the follow slot at offset from target's edge, rotated
// angle from the target's facing.
func ClosePoint(target, owner Entity, offset, angle float64) Vec3 {
	distance := target.BoundingRadius() + owner.BoundingRadius() + offset
	return NearPoint(target.Position(), distance, target.Facing()+angle)
}

// InArc reports whether to lies within arc radians centred on facing as seen
// from from.
func InArc(from Vec3, facing float64, to Vec3, arc float64) bool {
	if planar(from).Near(planar(to), 1e-9) {
		return true
	}
	delta := normalizeAngle(AngleTo(from, to) - facing)
	if delta > math.Pi {
		delta -= 2 * math.Pi
	}
	return math.Abs(delta) <= arc/2
}

// EdgeDistance returns the 3-D distance between the bounding spheres of a and
// b, clamped at zero.
func EdgeDistance(a, b Entity) float64 {
	dist := a.Position().Dist3D(b.Position()) - a.BoundingRadius() - b.BoundingRadius()
	if dist < 0 {
		return 0
	}
	return dist
}

// TargetMoved reports whether target drifted further than slack from dest.
// Owners that fly compare in three dimensions.
func TargetMoved(dest, target Vec3, slack float64, threeD bool) bool {
	if threeD {
		return dest.Dist3D(target) > slack
	}
	return dest.Dist2D(target) > slack
}

func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}
