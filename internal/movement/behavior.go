package movement

// Behavior specializes the shared pursuit state machine. Target may be nil
// in Prepare and Release when the handle no longer resolves.
type Behavior interface {
	Kind() Kind
	// Prepare runs on Initialize before the first destination is computed.
	Prepare(owner Owner, target Target)
	// Release runs on Interrupt and Finalize after the state is cleared.
	Release(owner Owner, target Target)
	// EnableWalking selects the gait for a committed path.
	EnableWalking(owner Owner, target Target) bool
	// ForceDirect lets the planner skip path validation.
	ForceDirect(owner Owner, target Target) bool
	// LostTarget reports a behavior-specific loss of the target.
	LostTarget(owner Owner, target Target) bool
	// ReachTarget runs once per arrival and reports whether it engaged.
	ReachTarget(owner Owner, target Target) bool
}
