package sim

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"mine-and-die/pursuit/internal/movement"
	"mine-and-die/pursuit/internal/telemetry"
	"mine-and-die/pursuit/internal/world"
)

type loopFixture struct {
	world    *world.World
	hero     *world.Unit
	wolf     *world.Unit
	loop     *Loop
	counters *telemetry.Counters
	logs     []string
}

func newLoopFixture(t *testing.T, hooks LoopHooks) *loopFixture {
	t.Helper()
	f := &loopFixture{
		world:    world.New(world.Config{}),
		hero:     world.NewUnit(world.UnitConfig{ID: "hero", Kind: movement.OwnerPlayer, Position: world.Vec3{X: 100, Y: 100}}),
		wolf:     world.NewUnit(world.UnitConfig{ID: "wolf", Position: world.Vec3{X: 50, Y: 100}}),
		counters: telemetry.NewCounters(),
	}
	f.world.Add(f.hero)
	f.world.Add(f.wolf)
	f.loop = NewLoop(LoopConfig{TickRate: 10}, f.world, Deps{
		Logger: telemetry.LoggerFunc(func(format string, args ...any) {
			f.logs = append(f.logs, fmt.Sprintf(format, args...))
		}),
		Metrics: f.counters,
	}, hooks)
	return f
}

func (f *loopFixture) chase() *movement.Pursuit {
	return movement.NewChase(f.world.Handle("hero"), movement.Deps{
		Config:   movement.DefaultConfig(),
		Planners: f.world.Planners(),
		Metrics:  f.counters,
	})
}

func TestLoopDrivesChaseToContact(t *testing.T) {
	f := newLoopFixture(t, LoopHooks{})
	ctx := context.Background()
	f.loop.Assign(ctx, f.wolf, f.chase())

	for i := 0; i < 120; i++ {
		f.loop.Step(ctx, 100*time.Millisecond)
	}

	if attacks := f.wolf.Attacks(); len(attacks) != 1 || attacks[0] != "hero" {
		t.Fatalf("expected the wolf to attack the hero once, got %v", attacks)
	}
	slots := f.loop.Slots()
	if len(slots) != 1 || slots[0].State != movement.StateArrived.String() || !slots[0].Reached {
		t.Fatalf("expected an arrived slot, got %+v", slots)
	}
	if got := f.counters.Value(MetricTicks); got != 120 {
		t.Fatalf("expected 120 ticks, got %d", got)
	}
	if f.loop.Tick() != 120 {
		t.Fatalf("expected tick 120, got %d", f.loop.Tick())
	}
}

func TestLoopDropsTerminatedPursuits(t *testing.T) {
	f := newLoopFixture(t, LoopHooks{})
	ctx := context.Background()
	f.loop.Assign(ctx, f.wolf, f.chase())

	f.loop.Do(func() {
		f.world.Remove("hero")
	})
	terminated := f.loop.Step(ctx, 100*time.Millisecond)

	if !reflect.DeepEqual(terminated, []string{"wolf"}) {
		t.Fatalf("expected wolf to be terminated, got %v", terminated)
	}
	if len(f.loop.Slots()) != 0 {
		t.Fatalf("expected slot to be dropped")
	}
	if f.wolf.Assignment().Kind != movement.KindNone {
		t.Fatalf("expected terminated pursuit to be finalized, got %s", f.wolf.Assignment().Kind)
	}
	if got := f.counters.Value(MetricTerminated); got != 1 {
		t.Fatalf("expected 1 terminated slot, got %d", got)
	}
	if len(f.logs) != 1 || !strings.Contains(f.logs[0], "wolf") {
		t.Fatalf("expected termination to be logged, got %v", f.logs)
	}
}

func TestLoopAssignFinalizesPrevious(t *testing.T) {
	f := newLoopFixture(t, LoopHooks{})
	ctx := context.Background()
	f.loop.Assign(ctx, f.wolf, f.chase())
	follow := movement.NewFollow(f.world.Handle("hero"), 2, 0, movement.Deps{Planners: f.world.Planners()})
	f.loop.Assign(ctx, f.wolf, follow)

	if got := f.wolf.Assignment().Kind; got != movement.KindFollow {
		t.Fatalf("expected follow assignment, got %s", got)
	}
	slots := f.loop.Slots()
	if len(slots) != 1 || slots[0].Behavior != "follow" {
		t.Fatalf("expected a single follow slot, got %+v", slots)
	}
}

func TestLoopInterruptSuspendsUntilReset(t *testing.T) {
	f := newLoopFixture(t, LoopHooks{})
	ctx := context.Background()
	f.loop.Assign(ctx, f.wolf, f.chase())

	if !f.loop.Interrupt(ctx, "wolf") {
		t.Fatalf("expected interrupt to find the slot")
	}
	f.wolf.Spline().Stop()
	start := f.wolf.Position()
	f.loop.Step(ctx, 100*time.Millisecond)

	if f.wolf.Position() != start {
		t.Fatalf("expected suspended wolf to stay put")
	}
	if slots := f.loop.Slots(); !slots[0].Suspended || slots[0].State != movement.StateInactive.String() {
		t.Fatalf("expected suspended inactive slot, got %+v", slots[0])
	}

	if !f.loop.Reset(ctx, "wolf") {
		t.Fatalf("expected reset to find the slot")
	}
	f.loop.Step(ctx, 100*time.Millisecond)
	if f.wolf.Position() == start {
		t.Fatalf("expected wolf to move after reset")
	}
	if f.loop.Interrupt(ctx, "ghost") || f.loop.NotifySpeedChanged("ghost") || f.loop.Clear(ctx, "ghost") {
		t.Fatalf("expected unknown owners to be reported missing")
	}
}

func TestLoopHooksSeeEveryTick(t *testing.T) {
	var before, after []uint64
	f := newLoopFixture(t, LoopHooks{
		BeforeStep: func(_ context.Context, tick uint64) { before = append(before, tick) },
		AfterStep: func(_ context.Context, tick uint64, terminated []string) {
			after = append(after, tick)
		},
	})
	ctx := context.Background()
	f.loop.Step(ctx, time.Millisecond)
	f.loop.Step(ctx, time.Millisecond)

	if !reflect.DeepEqual(before, []uint64{1, 2}) || !reflect.DeepEqual(after, []uint64{1, 2}) {
		t.Fatalf("expected hooks on ticks 1 and 2, got before=%v after=%v", before, after)
	}
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	f := newLoopFixture(t, LoopHooks{})
	f.loop.config.TickRate = 200
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	var err error
	wg.Add(1)
	go func() {
		defer wg.Done()
		err = f.loop.Run(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for f.loop.Tick() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	wg.Wait()

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if f.loop.Tick() < 3 {
		t.Fatalf("expected the loop to tick, got %d", f.loop.Tick())
	}
}

func TestLoopConfigInterval(t *testing.T) {
	if got := (LoopConfig{}).Interval(); got != time.Second/DefaultTickRate {
		t.Fatalf("expected default interval, got %v", got)
	}
	if got := (LoopConfig{TickRate: 20}).Interval(); got != 50*time.Millisecond {
		t.Fatalf("expected 50ms, got %v", got)
	}
}
