package movement

// Kind identifies the pursuit policy bound to an owner.
type Kind uint8

const (
	KindNone Kind = iota
	KindChase
	KindFollow
)

func (k Kind) String() string {
	switch k {
	case KindChase:
		return "chase"
	case KindFollow:
		return "follow"
	default:
		return "none"
	}
}

// State is the pursuit progress of an owner under its assigned policy.
type State uint8

const (
	StateInactive State = iota
	StateSeeking
	StateMoving
	StateArrived
)

func (s State) String() string {
	switch s {
	case StateSeeking:
		return "seeking"
	case StateMoving:
		return "moving"
	case StateArrived:
		return "arrived"
	default:
		return "inactive"
	}
}

// Assignment records which pursuit policy an owner runs and how far along it
// is. Transitions for a kind other than the assigned one are ignored.
type Assignment struct {
	Kind  Kind
	State State
}

// Activate binds kind to the owner and starts seeking a destination.
func (a *Assignment) Activate(kind Kind) {
	if a == nil || kind == KindNone {
		return
	}
	a.Kind = kind
	a.State = StateSeeking
}

// Moving marks that a path was committed and motion started.
func (a *Assignment) Moving(kind Kind) {
	if !a.Is(kind) {
		return
	}
	a.State = StateMoving
}

// Arrived marks that the in-flight motion completed.
func (a *Assignment) Arrived(kind Kind) {
	if !a.Is(kind) || a.State != StateMoving {
		return
	}
	a.State = StateArrived
}

// Halt drops in-flight motion while keeping the policy active. An arrived
// owner stays arrived.
func (a *Assignment) Halt(kind Kind) {
	if !a.IsMoving(kind) {
		return
	}
	a.State = StateSeeking
}

// Release leaves the policy assigned but inert until a replan succeeds.
func (a *Assignment) Release(kind Kind) {
	if !a.Is(kind) {
		return
	}
	a.State = StateInactive
}

// Deactivate unbinds kind from the owner.
func (a *Assignment) Deactivate(kind Kind) {
	if !a.Is(kind) {
		return
	}
	a.Kind = KindNone
	a.State = StateInactive
}

// Is reports whether kind is the assigned policy.
func (a *Assignment) Is(kind Kind) bool {
	return a != nil && kind != KindNone && a.Kind == kind
}

// IsMoving reports whether kind is assigned and currently moving.
func (a *Assignment) IsMoving(kind Kind) bool {
	return a.Is(kind) && a.State == StateMoving
}
