package movement

// Follow holds a slot at a fixed offset and angle from the target. Companions
// following their controller mirror its speed stats.
type Follow struct {
	// DirectPath lets a companion tailing its controller skip path
	// validation.
	DirectPath bool
}

// NewFollow returns a pursuit holding the slot at offset and angle from
// target's facing.
func NewFollow(target Handle, offset, angle float64, deps Deps) *Pursuit {
	return New(Follow{DirectPath: deps.Config.CompanionDirectPath}, target, offset, angle, deps)
}

func (Follow) Kind() Kind {
	return KindFollow
}

func (f Follow) Prepare(owner Owner, target Target) {
	f.SyncSpeed(owner, target)
}

func (f Follow) Release(owner Owner, target Target) {
	f.SyncSpeed(owner, target)
}

// EnableWalking mirrors the target's gait for creatures. Players always run.
func (Follow) EnableWalking(owner Owner, target Target) bool {
	if owner.Kind() == OwnerPlayer || target == nil {
		return false
	}
	return target.Walking()
}

func (f Follow) ForceDirect(owner Owner, target Target) bool {
	if !f.DirectPath || target == nil {
		return false
	}
	return controlledBy(owner, target) && owner.Assignment().Is(KindFollow)
}

func (Follow) LostTarget(_ Owner, target Target) bool {
	return target == nil || !target.Alive()
}

func (Follow) ReachTarget(Owner, Target) bool {
	return false
}

// SyncSpeed copies run, walk and swim speeds from target when it controls
// owner.
func (Follow) SyncSpeed(owner Owner, target Target) {
	if target == nil || !controlledBy(owner, target) {
		return
	}
	for _, kind := range SyncedSpeeds {
		owner.SetSpeed(kind, target.Speed(kind))
	}
}

func controlledBy(owner Owner, target Target) bool {
	return owner.Companion() && owner.ControllerID() != "" && owner.ControllerID() == target.ID()
}
