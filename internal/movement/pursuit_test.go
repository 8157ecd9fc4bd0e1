package movement

import (
	"context"
	"math"
	"testing"
	"time"

	movementlog "mine-and-die/pursuit/logging/movement"
)

const tickStep = 10 * time.Millisecond

func newChaseHarness(t *testing.T) (*harness, *Pursuit) {
	t.Helper()
	owner := newFakeOwner("wolf", Vec3{}, 1)
	target := newFakeEntity("hero", Vec3{X: 10}, 1)
	h := newHarness(owner, target)
	return h, NewChase(h.handle(), h.deps())
}

func TestChaseInitializeLaunchesTowardContactPoint(t *testing.T) {
	h, p := newChaseHarness(t)
	p.Initialize(context.Background(), h.owner)

	if len(h.owner.walkCalls) != 1 || h.owner.walkCalls[0] {
		t.Fatalf("expected chase to force running once, got %v", h.owner.walkCalls)
	}
	if len(h.planners) != 1 {
		t.Fatalf("expected one planner allocation, got %d", len(h.planners))
	}
	call := h.planner().calls[0]
	if want := (Vec3{X: 7.5}); !approxEqual(call.dest, want) {
		t.Fatalf("expected contact point %+v, got %+v", want, call.dest)
	}
	if call.direct {
		t.Fatalf("expected chase to validate its path")
	}
	if h.owner.motion.launches != 1 || h.owner.motion.walk {
		t.Fatalf("expected one running launch, got launches=%d walk=%v", h.owner.motion.launches, h.owner.motion.walk)
	}
	if got := h.owner.assignment; got.Kind != KindChase || got.State != StateMoving {
		t.Fatalf("expected chase/moving, got %s/%s", got.Kind, got.State)
	}
	if got := h.counters.Value(MetricReplans); got != 1 {
		t.Fatalf("expected 1 replan, got %d", got)
	}
	if got := len(h.events.OfType(movementlog.EventReplanned)); got != 1 {
		t.Fatalf("expected 1 replanned event, got %d", got)
	}
}

func TestChaseArrivalFiresOnce(t *testing.T) {
	h, p := newChaseHarness(t)
	ctx := context.Background()
	p.Initialize(ctx, h.owner)
	h.owner.arrive()
	h.owner.inMelee = true

	for tick := uint64(1); tick <= 3; tick++ {
		if !p.Update(ctx, h.owner, tick, tickStep) {
			t.Fatalf("expected pursuit to continue on tick %d", tick)
		}
	}

	if len(h.owner.attacks) != 1 || h.owner.attacks[0] != "hero" {
		t.Fatalf("expected a single attack on hero, got %v", h.owner.attacks)
	}
	if got := h.counters.Value(MetricArrivals); got != 1 {
		t.Fatalf("expected 1 arrival, got %d", got)
	}
	arrived := h.events.OfType(movementlog.EventArrived)
	if len(arrived) != 1 {
		t.Fatalf("expected 1 arrived event, got %d", len(arrived))
	}
	if payload, ok := arrived[0].Payload.(movementlog.ArrivedPayload); !ok || !payload.Engaged {
		t.Fatalf("expected engaged arrival payload, got %#v", arrived[0].Payload)
	}
	if !p.TargetReached() {
		t.Fatalf("expected target to be reached")
	}
	if h.owner.assignment.State != StateArrived {
		t.Fatalf("expected arrived state, got %s", h.owner.assignment.State)
	}
	if h.calls() != 1 {
		t.Fatalf("expected no replans while the target stands still, got %d calls", h.calls())
	}
}

func TestArrivalOutOfMeleeDoesNotAttack(t *testing.T) {
	h, p := newChaseHarness(t)
	ctx := context.Background()
	p.Initialize(ctx, h.owner)
	h.owner.arrive()

	p.Update(ctx, h.owner, 1, tickStep)

	if len(h.owner.attacks) != 0 {
		t.Fatalf("expected no attack out of melee reach, got %v", h.owner.attacks)
	}
	arrived := h.events.OfType(movementlog.EventArrived)
	if len(arrived) != 1 {
		t.Fatalf("expected arrival event, got %d", len(arrived))
	}
	if payload := arrived[0].Payload.(movementlog.ArrivedPayload); payload.Engaged {
		t.Fatalf("expected unengaged arrival")
	}
}

func TestDisplacementWaitsForRecheckAndUsesStrictSlack(t *testing.T) {
	h, p := newChaseHarness(t)
	ctx := context.Background()
	p.Initialize(ctx, h.owner)

	// Contact point sits exactly radius+range away from the target centre.
	p.Update(ctx, h.owner, 1, 50*time.Millisecond)
	if h.calls() != 1 {
		t.Fatalf("expected displacement equal to slack to be ignored, got %d calls", h.calls())
	}

	h.target.pos = Vec3{X: 10.1}
	p.Update(ctx, h.owner, 2, 50*time.Millisecond)
	if h.calls() != 1 {
		t.Fatalf("expected no recheck before the timer lapses, got %d calls", h.calls())
	}

	p.Update(ctx, h.owner, 3, 50*time.Millisecond)
	if h.calls() != 2 {
		t.Fatalf("expected replan once the timer lapsed, got %d calls", h.calls())
	}
	if want := (Vec3{X: 7.6}); !approxEqual(h.planner().calls[1].dest, want) {
		t.Fatalf("expected new contact point %+v, got %+v", want, h.planner().calls[1].dest)
	}
	if len(h.planners) != 1 {
		t.Fatalf("expected the planner to be reused, got %d allocations", len(h.planners))
	}
	if h.owner.assignment.State != StateMoving {
		t.Fatalf("expected moving after replan, got %s", h.owner.assignment.State)
	}
}

func TestDisplacementDimensionsFollowFlight(t *testing.T) {
	cases := []struct {
		name    string
		flying  bool
		replans int
	}{
		{name: "ground ignores height", flying: false, replans: 1},
		{name: "flyer measures height", flying: true, replans: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, p := newChaseHarness(t)
			ctx := context.Background()
			h.owner.flying = tc.flying
			p.Initialize(ctx, h.owner)
			p.Update(ctx, h.owner, 1, tickStep)

			h.target.pos = Vec3{X: 10, Z: 3}
			p.Update(ctx, h.owner, 2, 100*time.Millisecond)
			if h.calls() != tc.replans {
				t.Fatalf("expected %d planner calls, got %d", tc.replans, h.calls())
			}
		})
	}
}

func TestArrivalResetsAfterReplan(t *testing.T) {
	h, p := newChaseHarness(t)
	ctx := context.Background()
	p.Initialize(ctx, h.owner)
	h.owner.arrive()
	p.Update(ctx, h.owner, 1, tickStep)

	h.target.pos = Vec3{X: 20}
	p.Update(ctx, h.owner, 2, 100*time.Millisecond)
	if p.TargetReached() {
		t.Fatalf("expected a new destination to clear the arrival flag")
	}
	h.owner.arrive()
	p.Update(ctx, h.owner, 3, tickStep)
	if got := h.counters.Value(MetricArrivals); got != 2 {
		t.Fatalf("expected a second arrival episode, got %d", got)
	}
}

func TestArrivalSnapsFacingTowardTarget(t *testing.T) {
	h, p := newChaseHarness(t)
	ctx := context.Background()
	p.Initialize(ctx, h.owner)
	h.owner.arrive()
	h.owner.facing = math.Pi / 2

	p.Update(ctx, h.owner, 1, tickStep)
	if len(h.owner.facings) != 1 || math.Abs(h.owner.facings[0]) > 1e-9 {
		t.Fatalf("expected owner to face the target, got %v", h.owner.facings)
	}

	p.Update(ctx, h.owner, 2, tickStep)
	if len(h.owner.facings) != 1 {
		t.Fatalf("expected no further facing updates, got %v", h.owner.facings)
	}
}

func TestCastingHaltsMotionAndResumesWithoutTimer(t *testing.T) {
	h, p := newChaseHarness(t)
	ctx := context.Background()
	p.Initialize(ctx, h.owner)
	p.Update(ctx, h.owner, 1, tickStep)

	h.owner.casting = true
	h.target.pos = Vec3{X: 30}
	p.Update(ctx, h.owner, 2, tickStep)
	p.Update(ctx, h.owner, 3, 200*time.Millisecond)

	if h.owner.motion.stops != 1 {
		t.Fatalf("expected motion to stop once, got %d", h.owner.motion.stops)
	}
	if h.calls() != 1 {
		t.Fatalf("expected no replan while casting, got %d calls", h.calls())
	}
	if h.owner.assignment.State != StateSeeking {
		t.Fatalf("expected seeking while casting, got %s", h.owner.assignment.State)
	}
	if got := len(h.events.OfType(movementlog.EventHalted)); got != 1 {
		t.Fatalf("expected 1 halted event, got %d", got)
	}
	if h.counters.Value(MetricArrivals) != 0 {
		t.Fatalf("expected halted motion not to count as arrival")
	}

	h.owner.casting = false
	h.target.pos = Vec3{X: 10}
	p.Update(ctx, h.owner, 4, tickStep)
	if h.calls() != 2 {
		t.Fatalf("expected immediate replan after casting, got %d calls", h.calls())
	}
	if h.owner.assignment.State != StateMoving {
		t.Fatalf("expected moving after resume, got %s", h.owner.assignment.State)
	}

	p.Update(ctx, h.owner, 5, tickStep)
	if h.calls() != 2 {
		t.Fatalf("expected resume to fire once, got %d calls", h.calls())
	}
}

func TestCastingAfterArrivalKeepsArrival(t *testing.T) {
	h, p := newChaseHarness(t)
	ctx := context.Background()
	p.Initialize(ctx, h.owner)
	h.owner.arrive()
	p.Update(ctx, h.owner, 1, tickStep)

	h.owner.casting = true
	p.Update(ctx, h.owner, 2, tickStep)
	h.owner.casting = false
	p.Update(ctx, h.owner, 3, tickStep)

	if h.owner.motion.stops != 0 {
		t.Fatalf("expected no stop for finished motion, got %d", h.owner.motion.stops)
	}
	if h.calls() != 1 {
		t.Fatalf("expected no replan, got %d calls", h.calls())
	}
	if got := h.counters.Value(MetricArrivals); got != 1 {
		t.Fatalf("expected arrival to stay debounced, got %d", got)
	}
	if h.owner.assignment.State != StateArrived {
		t.Fatalf("expected arrived, got %s", h.owner.assignment.State)
	}
}

func TestMovementLockBlocksThenResumes(t *testing.T) {
	h, p := newChaseHarness(t)
	ctx := context.Background()
	p.Initialize(ctx, h.owner)
	p.Update(ctx, h.owner, 1, tickStep)

	h.owner.locked = true
	h.owner.casting = true
	h.target.pos = Vec3{X: 30}
	p.Update(ctx, h.owner, 2, 200*time.Millisecond)

	if h.calls() != 1 {
		t.Fatalf("expected no replan while locked, got %d calls", h.calls())
	}
	if h.owner.motion.stops != 0 {
		t.Fatalf("expected lock to take precedence over casting")
	}
	if h.owner.assignment.State != StateSeeking {
		t.Fatalf("expected seeking while locked, got %s", h.owner.assignment.State)
	}

	h.owner.locked = false
	h.owner.casting = false
	p.Update(ctx, h.owner, 3, tickStep)
	if h.calls() != 2 {
		t.Fatalf("expected replan on unlock, got %d calls", h.calls())
	}
}

func TestSpeedChangeRefreshesExistingDestination(t *testing.T) {
	h, p := newChaseHarness(t)
	ctx := context.Background()
	p.Initialize(ctx, h.owner)
	p.Update(ctx, h.owner, 1, tickStep)

	h.target.pos = Vec3{X: 10.05}
	p.SpeedChanged()
	p.Update(ctx, h.owner, 2, tickStep)

	if h.calls() != 2 {
		t.Fatalf("expected speed change to bypass the timer, got %d calls", h.calls())
	}
	if want := (Vec3{X: 7.5}); !approxEqual(h.planner().calls[1].dest, want) {
		t.Fatalf("expected refresh towards %+v, got %+v", want, h.planner().calls[1].dest)
	}
	if got := h.counters.Value(MetricPathReuse); got != 1 {
		t.Fatalf("expected 1 path reuse, got %d", got)
	}
	replanned := h.events.OfType(movementlog.EventReplanned)
	if payload := replanned[len(replanned)-1].Payload.(movementlog.ReplannedPayload); !payload.Refresh {
		t.Fatalf("expected refresh payload, got %#v", payload)
	}

	p.Update(ctx, h.owner, 3, tickStep)
	if h.calls() != 2 {
		t.Fatalf("expected speed change flag to clear, got %d calls", h.calls())
	}
}

func TestSpeedChangeAfterNoPathRecomputesDestination(t *testing.T) {
	owner := newFakeOwner("wolf", Vec3{}, 1)
	target := newFakeEntity("hero", Vec3{X: 10}, 1)
	h := newHarness(owner, target)
	h.noPath = true
	p := NewChase(h.handle(), h.deps())
	ctx := context.Background()

	p.Initialize(ctx, owner)
	p.Update(ctx, owner, 1, tickStep)
	if h.calls() != 2 || owner.motion.launches != 0 {
		t.Fatalf("expected two failed plans without launch, got %d calls and %d launches", h.calls(), owner.motion.launches)
	}

	h.planner().result = PathBlank
	p.SpeedChanged()
	p.Update(ctx, owner, 2, tickStep)

	if h.calls() != 3 {
		t.Fatalf("expected speed change to plan once more, got %d calls", h.calls())
	}
	if want := (Vec3{X: 7.5}); !approxEqual(h.planner().calls[2].dest, want) {
		t.Fatalf("expected plan towards contact point %+v, got %+v", want, h.planner().calls[2].dest)
	}
	if !approxEqual(owner.motion.final, Vec3{X: 7.5}) {
		t.Fatalf("expected launch towards the contact point, got %+v", owner.motion.final)
	}
	if got := h.counters.Value(MetricPathReuse); got != 0 {
		t.Fatalf("expected no path reuse without a committed path, got %d", got)
	}
}

func TestNoPathIsAbsorbed(t *testing.T) {
	owner := newFakeOwner("wolf", Vec3{}, 1)
	target := newFakeEntity("hero", Vec3{X: 10}, 1)
	h := newHarness(owner, target)
	h.noPath = true
	p := NewChase(h.handle(), h.deps())
	ctx := context.Background()

	p.Initialize(ctx, owner)
	if owner.motion.launches != 0 {
		t.Fatalf("expected no launch without a path, got %d", owner.motion.launches)
	}
	if owner.assignment.State != StateSeeking {
		t.Fatalf("expected seeking without a path, got %s", owner.assignment.State)
	}
	if got := h.counters.Value(MetricNoPath); got != 1 {
		t.Fatalf("expected 1 no-path sample, got %d", got)
	}
	if got := len(h.events.OfType(movementlog.EventPathUnavailable)); got != 1 {
		t.Fatalf("expected 1 path unavailable event, got %d", got)
	}

	if !p.Update(ctx, owner, 1, tickStep) {
		t.Fatalf("expected pursuit to survive a missing path")
	}
	if h.calls() != 2 {
		t.Fatalf("expected retry on the next recheck, got %d calls", h.calls())
	}
	if owner.assignment.State != StateSeeking {
		t.Fatalf("expected to keep seeking, got %s", owner.assignment.State)
	}
}

func TestInvalidTargetTerminates(t *testing.T) {
	cases := []struct {
		name       string
		invalidate func(h *harness)
	}{
		{name: "removed", invalidate: func(h *harness) { delete(h.entities, h.target.id) }},
		{name: "left world", invalidate: func(h *harness) { h.target.inWorld = false }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, p := newChaseHarness(t)
			ctx := context.Background()
			p.Initialize(ctx, h.owner)
			tc.invalidate(h)

			if p.Update(ctx, h.owner, 1, tickStep) {
				t.Fatalf("expected pursuit to terminate")
			}
			events := h.events.OfType(movementlog.EventTargetInvalid)
			if len(events) != 1 {
				t.Fatalf("expected 1 invalid event, got %d", len(events))
			}
			if events[0].Targets[0].ID != "hero" {
				t.Fatalf("expected hero as target, got %q", events[0].Targets[0].ID)
			}
		})
	}
}

func TestDeadOwnerIsInert(t *testing.T) {
	h, p := newChaseHarness(t)
	ctx := context.Background()
	p.Initialize(ctx, h.owner)
	h.owner.alive = false
	h.target.pos = Vec3{X: 40}

	if !p.Update(ctx, h.owner, 1, tickStep) {
		t.Fatalf("expected dead owner to keep the pursuit")
	}
	if h.calls() != 1 {
		t.Fatalf("expected no replan for a dead owner, got %d calls", h.calls())
	}
}

func TestChaseTargetLoss(t *testing.T) {
	cases := []struct {
		name string
		lose func(h *harness)
	}{
		{name: "target died", lose: func(h *harness) { h.target.alive = false }},
		{name: "victim switched", lose: func(h *harness) { h.owner.victim = "rat" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, p := newChaseHarness(t)
			ctx := context.Background()
			p.Initialize(ctx, h.owner)
			tc.lose(h)

			for tick := uint64(1); tick <= 2; tick++ {
				if !p.Update(ctx, h.owner, tick, tickStep) {
					t.Fatalf("expected target loss not to terminate the pursuit")
				}
			}
			if got := h.owner.assignment; got.Kind != KindChase || got.State != StateInactive {
				t.Fatalf("expected chase/inactive, got %s/%s", got.Kind, got.State)
			}
			if got := len(h.events.OfType(movementlog.EventTargetLost)); got != 1 {
				t.Fatalf("expected 1 target lost event, got %d", got)
			}
		})
	}
}

func TestInterruptAndReset(t *testing.T) {
	h, p := newChaseHarness(t)
	ctx := context.Background()
	p.Initialize(ctx, h.owner)

	p.Interrupt(ctx, h.owner)
	if got := h.owner.assignment; got.Kind != KindNone || got.State != StateInactive {
		t.Fatalf("expected cleared assignment, got %s/%s", got.Kind, got.State)
	}

	p.Reset(ctx, h.owner)
	if got := h.owner.assignment; got.Kind != KindChase || got.State != StateMoving {
		t.Fatalf("expected chase/moving after reset, got %s/%s", got.Kind, got.State)
	}
	if h.calls() != 2 {
		t.Fatalf("expected reset to replan, got %d calls", h.calls())
	}
}

func TestNegativeOffsetClampsToContact(t *testing.T) {
	h, _ := newChaseHarness(t)
	p := New(Follow{}, h.handle(), -3, 0, h.deps())
	if p.Offset() != 0 {
		t.Fatalf("expected offset 0, got %v", p.Offset())
	}
}

func newFollowHarness(t *testing.T, ownerPos Vec3, cfg Config) (*harness, *fakeOwner, *fakeEntity) {
	t.Helper()
	owner := newFakeOwner("hound", ownerPos, 0.5)
	owner.companion = true
	owner.controller = "hero"
	target := newFakeEntity("hero", Vec3{}, 1)
	target.speeds = map[SpeedKind]float64{SpeedWalk: 3, SpeedRun: 9, SpeedSwim: 5}
	h := newHarness(owner, target)
	h.config = cfg
	return h, owner, target
}

func TestFollowHoldsSlotAtAngle(t *testing.T) {
	h, owner, _ := newFollowHarness(t, Vec3{X: 20}, DefaultConfig())
	p := NewFollow(h.handle(), 2, math.Pi/2, h.deps())
	p.Initialize(context.Background(), owner)

	call := h.planner().calls[0]
	if want := (Vec3{Y: 3.5}); !approxEqual(call.dest, want) {
		t.Fatalf("expected close point %+v, got %+v", want, call.dest)
	}
	if !call.direct {
		t.Fatalf("expected companion following its controller to go direct")
	}
	for kind, want := range map[SpeedKind]float64{SpeedWalk: 3, SpeedRun: 9, SpeedSwim: 5} {
		if got := owner.Speed(kind); got != want {
			t.Fatalf("expected synced speed %v for %d, got %v", want, kind, got)
		}
	}
}

func TestFollowDirectPathPolicy(t *testing.T) {
	cases := []struct {
		name      string
		direct    bool
		companion bool
		want      bool
	}{
		{name: "companion with policy", direct: true, companion: true, want: true},
		{name: "policy disabled", direct: false, companion: true, want: false},
		{name: "not a companion", direct: true, companion: false, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CompanionDirectPath = tc.direct
			h, owner, _ := newFollowHarness(t, Vec3{X: 20}, cfg)
			owner.companion = tc.companion
			p := NewFollow(h.handle(), 2, 0, h.deps())
			p.Initialize(context.Background(), owner)

			if got := h.planner().calls[0].direct; got != tc.want {
				t.Fatalf("expected direct=%v, got %v", tc.want, got)
			}
		})
	}
}

func TestFollowSpeedSyncRequiresController(t *testing.T) {
	h, owner, _ := newFollowHarness(t, Vec3{X: 20}, DefaultConfig())
	owner.controller = "someone-else"
	p := NewFollow(h.handle(), 2, 0, h.deps())
	p.Initialize(context.Background(), owner)

	if got := owner.Speed(SpeedRun); got != 7 {
		t.Fatalf("expected run speed to stay 7, got %v", got)
	}
}

func TestFollowGaitPolicy(t *testing.T) {
	cases := []struct {
		name          string
		kind          OwnerKind
		targetWalking bool
		want          bool
	}{
		{name: "creature mirrors walking", kind: OwnerCreature, targetWalking: true, want: true},
		{name: "creature mirrors running", kind: OwnerCreature, targetWalking: false, want: false},
		{name: "player always runs", kind: OwnerPlayer, targetWalking: true, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, owner, target := newFollowHarness(t, Vec3{X: 20}, DefaultConfig())
			owner.kind = tc.kind
			target.walking = tc.targetWalking
			p := NewFollow(h.handle(), 2, 0, h.deps())
			p.Initialize(context.Background(), owner)

			if owner.motion.walk != tc.want {
				t.Fatalf("expected walk=%v, got %v", tc.want, owner.motion.walk)
			}
		})
	}
}

func TestFollowSuppressesMicroReplans(t *testing.T) {
	h, owner, _ := newFollowHarness(t, Vec3{X: 3}, DefaultConfig())
	p := NewFollow(h.handle(), 2, 0, h.deps())
	ctx := context.Background()
	p.Initialize(ctx, owner)

	if want := (Vec3{X: 3}); !approxEqual(h.planner().calls[0].dest, want) {
		t.Fatalf("expected idle follower to hold position %+v, got %+v", want, h.planner().calls[0].dest)
	}

	p.Update(ctx, owner, 1, tickStep)
	if h.calls() != 1 {
		t.Fatalf("expected replan to be suppressed near the slot, got %d calls", h.calls())
	}
	if got := h.counters.Value(MetricSuppressed); got != 1 {
		t.Fatalf("expected 1 suppressed replan, got %d", got)
	}

	owner.arrive()
	p.Update(ctx, owner, 2, tickStep)
	if got := len(h.events.OfType(movementlog.EventArrived)); got != 1 {
		t.Fatalf("expected follower to arrive, got %d events", got)
	}
	if len(owner.facings) != 1 || math.Abs(owner.facings[0]-math.Pi) > 1e-9 {
		t.Fatalf("expected follower to turn towards the target, got %v", owner.facings)
	}
}

func TestFollowWithAngleKeepsFacing(t *testing.T) {
	h, owner, _ := newFollowHarness(t, Vec3{X: 20}, DefaultConfig())
	p := NewFollow(h.handle(), 2, math.Pi/2, h.deps())
	ctx := context.Background()
	p.Initialize(ctx, owner)
	owner.arrive()
	owner.facing = math.Pi

	// The first recheck parks the follower on its own position.
	p.Update(ctx, owner, 1, tickStep)
	owner.arrive()
	p.Update(ctx, owner, 2, tickStep)
	if len(owner.facings) != 0 {
		t.Fatalf("expected angled follower to keep its facing, got %v", owner.facings)
	}
	if got := len(h.events.OfType(movementlog.EventArrived)); got != 1 {
		t.Fatalf("expected arrival, got %d", got)
	}
}

func TestFollowFinalizeResyncsSpeed(t *testing.T) {
	h, owner, target := newFollowHarness(t, Vec3{X: 20}, DefaultConfig())
	p := NewFollow(h.handle(), 2, 0, h.deps())
	ctx := context.Background()
	p.Initialize(ctx, owner)

	target.speeds[SpeedRun] = 12
	p.Finalize(ctx, owner)

	if got := owner.Speed(SpeedRun); got != 12 {
		t.Fatalf("expected resynced run speed 12, got %v", got)
	}
	if owner.assignment.Kind != KindNone {
		t.Fatalf("expected follow to be deactivated, got %s", owner.assignment.Kind)
	}
}

func TestFollowLosesDeadTarget(t *testing.T) {
	h, owner, target := newFollowHarness(t, Vec3{X: 20}, DefaultConfig())
	p := NewFollow(h.handle(), 2, 0, h.deps())
	ctx := context.Background()
	p.Initialize(ctx, owner)
	target.alive = false

	if !p.Update(ctx, owner, 1, tickStep) {
		t.Fatalf("expected dead target to keep the pursuit")
	}
	if owner.assignment.State != StateInactive {
		t.Fatalf("expected inactive follow, got %s", owner.assignment.State)
	}
	if got := len(h.events.OfType(movementlog.EventTargetLost)); got != 1 {
		t.Fatalf("expected 1 target lost event, got %d", got)
	}
}
