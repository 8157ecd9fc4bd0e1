package movement

import state "mine-and-die/pursuit/internal/world/state"

// Vec3 aliases the shared world position type.
type Vec3 = state.Vec3

// OwnerKind separates player-controlled owners from autonomous ones.
type OwnerKind uint8

const (
	OwnerCreature OwnerKind = iota
	OwnerPlayer
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerPlayer:
		return "player"
	case OwnerCreature:
		return "creature"
	default:
		return "unknown"
	}
}

// SpeedKind enumerates the movement speed stats that companions mirror.
type SpeedKind uint8

const (
	SpeedWalk SpeedKind = iota
	SpeedRun
	SpeedSwim
)

// SyncedSpeeds lists the stats copied from a controller to its companion.
var SyncedSpeeds = [...]SpeedKind{SpeedRun, SpeedWalk, SpeedSwim}

// Entity is the read-only view shared by owners and targets.
type Entity interface {
	ID() string
	Position() Vec3
	Facing() float64
	BoundingRadius() float64
	Alive() bool
	InWorld() bool
	Walking() bool
	Speed(kind SpeedKind) float64
}

// Target is the pursued entity. It is observed, never owned.
type Target interface {
	Entity
}

// Owner is the entity driven by a pursuit. It is supplied by the caller on
// every call and never retained.
type Owner interface {
	Entity

	Kind() OwnerKind
	MovementLocked() bool
	CastingWithDuration() bool
	CanFly() bool

	Companion() bool
	ControllerID() string
	VictimID() string

	SetWalking(walk bool)
	SetFacing(angle float64)
	SetSpeed(kind SpeedKind, value float64)
	CanReachWithMelee(target Target) bool
	Attack(target Target)

	Assignment() *Assignment
	Motion() Motion
}

// PathType classifies the outcome of a planner query. Values are bit flags.
type PathType uint8

const PathBlank PathType = 0

const (
	PathNormal PathType = 1 << iota
	PathShortcut
	PathIncomplete
	PathNoPath
)

// Has reports whether all bits in flag are set.
func (t PathType) Has(flag PathType) bool {
	return flag != 0 && t&flag == flag
}

// PathPlanner computes waypoint sequences for a single owner. A planner is
// allocated lazily by the pursuit and reused across replans.
type PathPlanner interface {
	Calculate(dest Vec3, forceDirect bool) PathType
	Path() []Vec3
	EndPosition() Vec3
}

// PlannerFactory binds a new planner to an owner.
type PlannerFactory func(owner Owner) PathPlanner

// Motion is the owner's motion executor. It interpolates along the loaded
// waypoints on its own; the pursuit only loads, launches and stops it.
type Motion interface {
	Load(points []Vec3)
	SetWalk(walk bool)
	Launch()
	Stop()
	Finished() bool
	FinalDestination() Vec3
}
