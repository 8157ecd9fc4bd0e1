package movement

import (
	"math"

	"mine-and-die/pursuit/internal/telemetry"
	"mine-and-die/pursuit/logging/sinks"
)

type fakeEntity struct {
	id      string
	pos     Vec3
	facing  float64
	radius  float64
	alive   bool
	inWorld bool
	walking bool
	speeds  map[SpeedKind]float64
}

func newFakeEntity(id string, pos Vec3, radius float64) *fakeEntity {
	return &fakeEntity{
		id:      id,
		pos:     pos,
		radius:  radius,
		alive:   true,
		inWorld: true,
		speeds:  map[SpeedKind]float64{SpeedWalk: 2.5, SpeedRun: 7, SpeedSwim: 4.7},
	}
}

func (e *fakeEntity) ID() string { return e.id }
func (e *fakeEntity) Position() Vec3 { return e.pos }
func (e *fakeEntity) Facing() float64 { return e.facing }
func (e *fakeEntity) BoundingRadius() float64 { return e.radius }
func (e *fakeEntity) Alive() bool { return e.alive }
func (e *fakeEntity) InWorld() bool { return e.inWorld }
func (e *fakeEntity) Walking() bool { return e.walking }
func (e *fakeEntity) Speed(kind SpeedKind) float64 { return e.speeds[kind] }

type fakeMotion struct {
	loaded   []Vec3
	walk     bool
	launches int
	stops    int
	running  bool
	final    Vec3
}

func (m *fakeMotion) Load(points []Vec3) { m.loaded = append([]Vec3(nil), points...) }
func (m *fakeMotion) SetWalk(walk bool) { m.walk = walk }
func (m *fakeMotion) Finished() bool { return !m.running }

func (m *fakeMotion) Launch() {
	m.launches++
	if len(m.loaded) == 0 {
		return
	}
	m.running = true
	m.final = m.loaded[len(m.loaded)-1]
}

func (m *fakeMotion) Stop() {
	m.stops++
	m.running = false
}

func (m *fakeMotion) FinalDestination() Vec3 { return m.final }

type fakeOwner struct {
	*fakeEntity
	kind       OwnerKind
	locked     bool
	casting    bool
	flying     bool
	companion  bool
	controller string
	victim     string
	inMelee    bool
	attacks    []string
	facings    []float64
	walkCalls  []bool
	assignment Assignment
	motion     *fakeMotion
}

func newFakeOwner(id string, pos Vec3, radius float64) *fakeOwner {
	return &fakeOwner{
		fakeEntity: newFakeEntity(id, pos, radius),
		motion:     &fakeMotion{final: pos},
	}
}

func (o *fakeOwner) Kind() OwnerKind { return o.kind }
func (o *fakeOwner) MovementLocked() bool { return o.locked }
func (o *fakeOwner) CastingWithDuration() bool { return o.casting }
func (o *fakeOwner) CanFly() bool { return o.flying }
func (o *fakeOwner) Companion() bool { return o.companion }
func (o *fakeOwner) ControllerID() string { return o.controller }
func (o *fakeOwner) VictimID() string { return o.victim }
func (o *fakeOwner) Assignment() *Assignment { return &o.assignment }
func (o *fakeOwner) Motion() Motion { return o.motion }

func (o *fakeOwner) SetWalking(walk bool) {
	o.walking = walk
	o.walkCalls = append(o.walkCalls, walk)
}

func (o *fakeOwner) SetFacing(angle float64) {
	o.facing = angle
	o.facings = append(o.facings, angle)
}

func (o *fakeOwner) SetSpeed(kind SpeedKind, value float64) {
	o.speeds[kind] = value
}

func (o *fakeOwner) CanReachWithMelee(Target) bool {
	return o.inMelee
}

func (o *fakeOwner) Attack(target Target) {
	o.victim = target.ID()
	o.attacks = append(o.attacks, target.ID())
}

// arrive completes the in-flight motion at its final destination.
func (o *fakeOwner) arrive() {
	o.pos = o.motion.final
	o.motion.running = false
}

type planCall struct {
	dest   Vec3
	direct bool
}

type fakePlanner struct {
	owner  Owner
	result PathType
	calls  []planCall
	path   []Vec3
	end    Vec3
}

func (p *fakePlanner) Calculate(dest Vec3, forceDirect bool) PathType {
	p.calls = append(p.calls, planCall{dest: dest, direct: forceDirect})
	if p.result.Has(PathNoPath) {
		return p.result
	}
	p.path = []Vec3{p.owner.Position(), dest}
	p.end = dest
	if p.result == PathBlank {
		return PathNormal
	}
	return p.result
}

func (p *fakePlanner) Path() []Vec3 { return p.path }
func (p *fakePlanner) EndPosition() Vec3 { return p.end }

type harness struct {
	owner    *fakeOwner
	target   *fakeEntity
	entities map[string]Target
	planners []*fakePlanner
	noPath   bool
	events   *sinks.Memory
	counters *telemetry.Counters
	config   Config
}

func newHarness(owner *fakeOwner, target *fakeEntity) *harness {
	h := &harness{
		owner:    owner,
		target:   target,
		entities: map[string]Target{target.id: target},
		events:   sinks.NewMemory(),
		counters: telemetry.NewCounters(),
		config:   DefaultConfig(),
	}
	return h
}

func (h *harness) handle() Handle {
	return NewHandle(h.target.id, ResolverFunc(func(id string) (Target, bool) {
		target, ok := h.entities[id]
		return target, ok
	}))
}

func (h *harness) deps() Deps {
	return Deps{
		Config: h.config,
		Planners: func(owner Owner) PathPlanner {
			planner := &fakePlanner{owner: owner}
			if h.noPath {
				planner.result = PathNoPath
			}
			h.planners = append(h.planners, planner)
			return planner
		},
		Publisher: h.events,
		Metrics:   h.counters,
	}
}

func (h *harness) planner() *fakePlanner {
	if len(h.planners) == 0 {
		return nil
	}
	return h.planners[len(h.planners)-1]
}

func (h *harness) calls() int {
	if p := h.planner(); p != nil {
		return len(p.calls)
	}
	return 0
}

func approxEqual(a, b Vec3) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}
