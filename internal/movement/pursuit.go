package movement

import (
	"context"
	"time"

	"mine-and-die/pursuit/internal/telemetry"
	"mine-and-die/pursuit/logging"
	movementlog "mine-and-die/pursuit/logging/movement"
)

const (
	MetricReplans    = "pursuit.replans"
	MetricPathReuse  = "pursuit.path_reuse"
	MetricNoPath     = "pursuit.no_path"
	MetricArrivals   = "pursuit.arrivals"
	MetricSuppressed = "pursuit.suppressed"
)

// Deps carries the collaborators shared by every pursuit.
type Deps struct {
	Config    Config
	Planners  PlannerFactory
	Publisher logging.Publisher
	Metrics   telemetry.Metrics
}

// Pursuit drives one owner towards a moving target. It is owned by the
// owner's movement slot and must only be called from that owner's tick.
type Pursuit struct {
	behavior Behavior
	target   Handle
	offset   float64
	angle    float64

	cfg       Config
	planners  PlannerFactory
	planner   PathPlanner
	publisher logging.Publisher
	metrics   telemetry.Metrics

	recheck      RecheckTimer
	hasPath      bool
	reached      bool
	speedChanged bool
	resume       bool
	lost         bool
	tick         uint64
}

// New binds behavior to target. Offset and angle place the destination; an
// offset of zero heads for the melee contact point.
func New(behavior Behavior, target Handle, offset, angle float64, deps Deps) *Pursuit {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	if offset < 0 {
		offset = 0
	}
	return &Pursuit{
		behavior:  behavior,
		target:    target,
		offset:    offset,
		angle:     angle,
		cfg:       deps.Config.Normalized(),
		planners:  deps.Planners,
		publisher: publisher,
		metrics:   metrics,
		recheck:   NewRecheckTimer(0),
	}
}

// Kind returns the bound behavior kind.
func (p *Pursuit) Kind() Kind {
	return p.behavior.Kind()
}

// Target returns the handle of the pursued entity.
func (p *Pursuit) Target() Handle {
	return p.target
}

func (p *Pursuit) Offset() float64 {
	return p.offset
}

func (p *Pursuit) Angle() float64 {
	return p.angle
}

// TargetReached reports whether the current arrival episode already fired.
func (p *Pursuit) TargetReached() bool {
	return p.reached
}

// Planner returns the lazily allocated planner, nil before the first replan.
func (p *Pursuit) Planner() PathPlanner {
	return p.planner
}

// SpeedChanged forces a path refresh on the next Update.
func (p *Pursuit) SpeedChanged() {
	p.speedChanged = true
}

// Initialize activates the behavior and computes the first destination.
func (p *Pursuit) Initialize(ctx context.Context, owner Owner) {
	if owner == nil {
		return
	}
	owner.Assignment().Activate(p.Kind())
	p.lost = false
	target, _ := p.target.Resolve()
	p.behavior.Prepare(owner, target)
	p.setTargetLocation(ctx, owner, true)
}

// Reset restarts the pursuit after a temporary block.
func (p *Pursuit) Reset(ctx context.Context, owner Owner) {
	p.Initialize(ctx, owner)
}

// Interrupt clears the behavior state without waiting for motion to finish.
func (p *Pursuit) Interrupt(_ context.Context, owner Owner) {
	p.release(owner)
}

// Finalize clears the behavior state when the pursuit is discarded.
func (p *Pursuit) Finalize(_ context.Context, owner Owner) {
	p.release(owner)
}

func (p *Pursuit) release(owner Owner) {
	if owner == nil {
		return
	}
	owner.Assignment().Deactivate(p.Kind())
	target, _ := p.target.Resolve()
	p.behavior.Release(owner, target)
}

// Update advances the pursuit by one tick. It returns false once the target
// is gone for good; the caller must then discard the pursuit.
func (p *Pursuit) Update(ctx context.Context, owner Owner, tick uint64, elapsed time.Duration) bool {
	p.tick = tick
	target, ok := p.target.Resolve()
	if !ok {
		movementlog.TargetInvalid(ctx, p.publisher, tick, entityRef(owner), p.target.ID, movementlog.StatusPayload{Behavior: p.Kind().String()})
		return false
	}
	if owner == nil || !owner.Alive() {
		return true
	}

	kind := p.Kind()
	assignment := owner.Assignment()
	motion := owner.Motion()

	if owner.MovementLocked() {
		if p.planner == nil || (motion != nil && !motion.Finished()) {
			p.resume = true
		}
		assignment.Halt(kind)
		return true
	}

	if owner.CastingWithDuration() {
		if motion != nil && !motion.Finished() {
			motion.Stop()
			p.resume = true
			movementlog.Halted(ctx, p.publisher, tick, entityRef(owner), movementlog.StatusPayload{Behavior: kind.String(), Reason: "casting"})
		}
		assignment.Halt(kind)
		return true
	}

	if p.behavior.LostTarget(owner, target) {
		assignment.Release(kind)
		if !p.lost {
			p.lost = true
			movementlog.TargetLost(ctx, p.publisher, tick, entityRef(owner), entityRef(target), movementlog.StatusPayload{Behavior: kind.String()})
		}
		return true
	}
	p.lost = false

	if motion == nil {
		return true
	}

	moved := false
	p.recheck.Update(elapsed)
	if p.recheck.Passed() {
		p.recheck.Reset(p.cfg.RecheckInterval)
		slack := owner.BoundingRadius() + p.cfg.RecalculationRange
		moved = TargetMoved(motion.FinalDestination(), target.Position(), slack, owner.CanFly())
	}

	if p.speedChanged || moved || p.resume {
		updateDestination := moved || p.resume
		p.resume = false
		p.setTargetLocation(ctx, owner, updateDestination)
	}

	if motion.Finished() {
		if p.angle == 0 && !InArc(owner.Position(), owner.Facing(), target.Position(), FacingArc) {
			owner.SetFacing(AngleTo(owner.Position(), target.Position()))
		}
		if !p.reached {
			p.reached = true
			assignment.Arrived(kind)
			engaged := p.behavior.ReachTarget(owner, target)
			p.metrics.Add(MetricArrivals, 1)
			movementlog.Arrived(ctx, p.publisher, tick, entityRef(owner), entityRef(target), movementlog.ArrivedPayload{Behavior: kind.String(), Engaged: engaged})
		}
	}
	return true
}

// setTargetLocation picks a destination and restarts motion towards it. When
// updateDestination is false and a path was committed before only the path is
// refreshed; otherwise the destination is recomputed.
func (p *Pursuit) setTargetLocation(ctx context.Context, owner Owner, updateDestination bool) {
	target, ok := p.target.Resolve()
	if !ok || owner.MovementLocked() {
		return
	}
	motion := owner.Motion()
	if motion == nil {
		return
	}

	var dest Vec3
	refresh := false
	switch {
	case !updateDestination && p.hasPath:
		dest = p.planner.EndPosition()
		refresh = true
	case p.offset > 0 && EdgeDistance(target, owner) <= 2*p.offset:
		if !motion.Finished() {
			p.metrics.Add(MetricSuppressed, 1)
			return
		}
		dest = owner.Position()
	case p.offset == 0:
		dest = ContactPoint(target, owner)
	default:
		dest = ClosePoint(target, owner, p.offset, p.angle)
	}

	if p.planner == nil {
		if p.planners == nil {
			return
		}
		if p.planner = p.planners(owner); p.planner == nil {
			return
		}
	}

	direct := p.behavior.ForceDirect(owner, target)
	if p.planner.Calculate(dest, direct).Has(PathNoPath) {
		p.metrics.Add(MetricNoPath, 1)
		movementlog.PathUnavailable(ctx, p.publisher, p.tick, entityRef(owner), entityRef(target), movementlog.PathUnavailablePayload{
			Behavior:    p.Kind().String(),
			Destination: point(dest),
		})
		return
	}

	p.hasPath = true
	owner.Assignment().Moving(p.Kind())
	p.reached = false
	p.speedChanged = false

	walk := p.behavior.EnableWalking(owner, target)
	path := p.planner.Path()
	motion.Load(path)
	motion.SetWalk(walk)
	motion.Launch()

	p.metrics.Add(MetricReplans, 1)
	if refresh {
		p.metrics.Add(MetricPathReuse, 1)
	}
	movementlog.Replanned(ctx, p.publisher, p.tick, entityRef(owner), entityRef(target), movementlog.ReplannedPayload{
		Behavior:    p.Kind().String(),
		Destination: point(p.planner.EndPosition()),
		Waypoints:   len(path),
		Walk:        walk,
		Refresh:     refresh,
		Direct:      direct,
	})
}

func entityRef(entity Entity) logging.EntityRef {
	if entity == nil {
		return logging.EntityRef{Kind: logging.EntityKindUnknown}
	}
	kind := logging.EntityKindUnknown
	if owner, ok := entity.(Owner); ok {
		switch owner.Kind() {
		case OwnerPlayer:
			kind = logging.EntityKindPlayer
		case OwnerCreature:
			kind = logging.EntityKindCreature
		}
	}
	return logging.EntityRef{ID: entity.ID(), Kind: kind}
}

func point(v Vec3) movementlog.Point {
	return movementlog.Point{X: v.X, Y: v.Y, Z: v.Z}
}
