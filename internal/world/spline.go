package world

import (
	"time"

	"mine-and-die/pursuit/internal/movement"
)

// Spline moves its unit along loaded waypoints at the unit's walk or run
// speed. Loaded points take effect on Launch.
type Spline struct {
	unit    *Unit
	pending []Vec3
	points  []Vec3
	index   int
	walk    bool
	active  bool
	final   Vec3
}

func newSpline(unit *Unit) *Spline {
	return &Spline{unit: unit, final: unit.pos}
}

func (s *Spline) Load(points []Vec3) {
	s.pending = append(s.pending[:0], points...)
}

func (s *Spline) SetWalk(walk bool) {
	s.walk = walk
}

func (s *Spline) Launch() {
	s.points = append(s.points[:0], s.pending...)
	s.pending = s.pending[:0]
	s.index = 0
	if len(s.points) == 0 {
		s.active = false
		s.final = s.unit.pos
		return
	}
	s.active = true
	s.final = s.points[len(s.points)-1]
}

// Stop finalizes the spline where the unit currently stands.
func (s *Spline) Stop() {
	s.active = false
	s.points = s.points[:0]
	s.final = s.unit.pos
}

func (s *Spline) Finished() bool {
	return !s.active
}

func (s *Spline) FinalDestination() Vec3 {
	return s.final
}

// Walking reports the gait of the last launch.
func (s *Spline) Walking() bool {
	return s.walk
}

// Waypoints returns the launched points not yet reached.
func (s *Spline) Waypoints() []Vec3 {
	if !s.active {
		return nil
	}
	return append([]Vec3(nil), s.points[s.index:]...)
}

// Advance moves the unit by elapsed at its current gait speed.
func (s *Spline) Advance(elapsed time.Duration) {
	if !s.active || elapsed <= 0 {
		return
	}
	speed := s.unit.Speed(movement.SpeedRun)
	if s.walk {
		speed = s.unit.Speed(movement.SpeedWalk)
	}
	budget := speed * elapsed.Seconds()
	pos := s.unit.pos

	for s.index < len(s.points) {
		node := s.points[s.index]
		dist := pos.Dist3D(node)
		if dist <= WaypointReachedEpsilon {
			pos = node
			s.index++
			continue
		}
		if budget <= 0 {
			break
		}
		if dx, dy := node.X-pos.X, node.Y-pos.Y; dx != 0 || dy != 0 {
			s.unit.facing = movement.AngleTo(pos, node)
		}
		if budget >= dist {
			budget -= dist
			pos = node
			s.index++
			continue
		}
		t := budget / dist
		pos = Vec3{
			X: pos.X + (node.X-pos.X)*t,
			Y: pos.Y + (node.Y-pos.Y)*t,
			Z: pos.Z + (node.Z-pos.Z)*t,
		}
		budget = 0
	}

	s.unit.pos = pos
	if s.index >= len(s.points) {
		s.active = false
		s.final = pos
	}
}
