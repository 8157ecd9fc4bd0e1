package world

import (
	"math"

	"mine-and-die/pursuit/internal/movement"
)

// UnitConfig seeds a Unit.
type UnitConfig struct {
	ID           string             `json:"id" yaml:"id"`
	Kind         movement.OwnerKind `json:"kind" yaml:"kind"`
	Position     Vec3               `json:"position" yaml:"position"`
	Facing       float64            `json:"facing" yaml:"facing"`
	Radius       float64            `json:"radius" yaml:"radius"`
	WalkSpeed    float64            `json:"walkSpeed" yaml:"walk_speed"`
	RunSpeed     float64            `json:"runSpeed" yaml:"run_speed"`
	SwimSpeed    float64            `json:"swimSpeed" yaml:"swim_speed"`
	Walking      bool               `json:"walking" yaml:"walking"`
	Flying       bool               `json:"flying" yaml:"flying"`
	Companion    bool               `json:"companion" yaml:"companion"`
	ControllerID string             `json:"controllerId" yaml:"controller_id"`
}

const (
	defaultUnitRadius = 0.5
	defaultWalkSpeed  = 2.5
	defaultRunSpeed   = 7.0
	defaultSwimSpeed  = 4.7
)

// Unit is a live world entity usable both as a pursuit owner and target.
type Unit struct {
	id         string
	kind       movement.OwnerKind
	pos        Vec3
	facing     float64
	radius     float64
	speeds     [3]float64
	walking    bool
	flying     bool
	alive      bool
	inWorld    bool
	locked     bool
	casting    bool
	companion  bool
	controller string
	victim     string

	assignment movement.Assignment
	spline     *Spline
	attacks    []string
}

// NewUnit builds a living unit outside any world.
func NewUnit(cfg UnitConfig) *Unit {
	u := &Unit{
		id:         cfg.ID,
		kind:       cfg.Kind,
		pos:        cfg.Position,
		facing:     cfg.Facing,
		radius:     cfg.Radius,
		walking:    cfg.Walking,
		flying:     cfg.Flying,
		alive:      true,
		companion:  cfg.Companion,
		controller: cfg.ControllerID,
	}
	if u.radius <= 0 {
		u.radius = defaultUnitRadius
	}
	u.speeds[movement.SpeedWalk] = orDefault(cfg.WalkSpeed, defaultWalkSpeed)
	u.speeds[movement.SpeedRun] = orDefault(cfg.RunSpeed, defaultRunSpeed)
	u.speeds[movement.SpeedSwim] = orDefault(cfg.SwimSpeed, defaultSwimSpeed)
	u.spline = newSpline(u)
	return u
}

func orDefault(value, fallback float64) float64 {
	if value > 0 {
		return value
	}
	return fallback
}

func (u *Unit) ID() string { return u.id }
func (u *Unit) Kind() movement.OwnerKind { return u.kind }
func (u *Unit) Position() Vec3 { return u.pos }
func (u *Unit) Facing() float64 { return u.facing }
func (u *Unit) BoundingRadius() float64 { return u.radius }
func (u *Unit) Alive() bool { return u.alive }
func (u *Unit) InWorld() bool { return u.inWorld }
func (u *Unit) Walking() bool { return u.walking }
func (u *Unit) MovementLocked() bool { return u.locked }
func (u *Unit) CastingWithDuration() bool { return u.casting }
func (u *Unit) CanFly() bool { return u.flying }
func (u *Unit) Companion() bool { return u.companion }
func (u *Unit) ControllerID() string { return u.controller }
func (u *Unit) VictimID() string { return u.victim }
func (u *Unit) Assignment() *movement.Assignment { return &u.assignment }
func (u *Unit) Motion() movement.Motion { return u.spline }

// Spline exposes the concrete motion executor.
func (u *Unit) Spline() *Spline {
	return u.spline
}

func (u *Unit) Speed(kind movement.SpeedKind) float64 {
	if int(kind) >= len(u.speeds) {
		return 0
	}
	return u.speeds[kind]
}

func (u *Unit) SetSpeed(kind movement.SpeedKind, value float64) {
	if int(kind) >= len(u.speeds) || value < 0 {
		return
	}
	u.speeds[kind] = value
}

func (u *Unit) SetWalking(walk bool) {
	u.walking = walk
}

func (u *Unit) SetFacing(angle float64) {
	u.facing = angle
}

// SetPosition teleports the unit without touching its spline.
func (u *Unit) SetPosition(pos Vec3) {
	u.pos = pos
}

func (u *Unit) SetAlive(alive bool) {
	u.alive = alive
}

func (u *Unit) SetMovementLocked(locked bool) {
	u.locked = locked
}

func (u *Unit) SetCasting(casting bool) {
	u.casting = casting
}

func (u *Unit) SetVictim(id string) {
	u.victim = id
}

func (u *Unit) SetController(id string, companion bool) {
	u.controller = id
	u.companion = companion
}

// CanReachWithMelee reports whether target is within melee reach on the
// horizontal plane.
func (u *Unit) CanReachWithMelee(target movement.Target) bool {
	if target == nil {
		return false
	}
	reach := math.Max(MeleeRange, u.radius+target.BoundingRadius()+MeleeLeeway)
	return u.pos.Dist2D(target.Position()) <= reach
}

// Attack records target as victim and remembers the swing.
func (u *Unit) Attack(target movement.Target) {
	if target == nil {
		return
	}
	u.victim = target.ID()
	u.attacks = append(u.attacks, target.ID())
}

// Attacks returns the identifiers of every attacked target in order.
func (u *Unit) Attacks() []string {
	return append([]string(nil), u.attacks...)
}
