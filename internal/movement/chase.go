package movement

// Chase closes to melee contact and attacks on arrival. It always runs.
type Chase struct{}

// NewChase returns a pursuit heading for target's contact point.
func NewChase(target Handle, deps Deps) *Pursuit {
	return New(Chase{}, target, 0, 0, deps)
}

func (Chase) Kind() Kind {
	return KindChase
}

func (Chase) Prepare(owner Owner, _ Target) {
	owner.SetWalking(false)
}

func (Chase) Release(Owner, Target) {}

func (Chase) EnableWalking(Owner, Target) bool {
	return false
}

func (Chase) ForceDirect(Owner, Target) bool {
	return false
}

// LostTarget reports a dead target, or an owner whose combat victim moved on
// to someone else.
func (Chase) LostTarget(owner Owner, target Target) bool {
	if target == nil || !target.Alive() {
		return true
	}
	victim := owner.VictimID()
	return victim != "" && victim != target.ID()
}

func (Chase) ReachTarget(owner Owner, target Target) bool {
	if target == nil || !owner.CanReachWithMelee(target) {
		return false
	}
	owner.Attack(target)
	return true
}
