package sim

import (
	"context"
	"sort"
	"sync"
	"time"

	"mine-and-die/pursuit/internal/movement"
)

const (
	DefaultTickRate = 15

	MetricTicks       = "sim.ticks"
	MetricSlots       = "sim.slots"
	MetricTerminated  = "sim.slots_terminated"
	MetricTickLatency = "sim.tick_micros"
)

// LoopConfig tunes the fixed-timestep runner.
type LoopConfig struct {
	TickRate int `json:"tickRate" yaml:"tick_rate"`
}

// Interval returns the duration of one tick.
func (cfg LoopConfig) Interval() time.Duration {
	rate := cfg.TickRate
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return time.Second / time.Duration(rate)
}

// Advancer moves the world's motion executors forward in time.
type Advancer interface {
	Advance(elapsed time.Duration)
}

// LoopHooks lets callers drive the world around the pursuit slots.
type LoopHooks struct {
	// BeforeStep runs under the loop lock before any slot is updated.
	BeforeStep func(ctx context.Context, tick uint64)
	// AfterStep runs under the loop lock once the world has advanced.
	AfterStep func(ctx context.Context, tick uint64, terminated []string)
}

// Slot is an owner's movement slot: the pursuit currently driving it.
type Slot struct {
	Owner   movement.Owner
	Pursuit *movement.Pursuit

	// Suspended slots are skipped by Step until Reset.
	Suspended bool
}

// SlotStatus is a read-only view of a slot.
type SlotStatus struct {
	OwnerID   string `json:"ownerId"`
	TargetID  string `json:"targetId"`
	Behavior  string `json:"behavior"`
	State     string `json:"state"`
	Reached   bool   `json:"reached"`
	Suspended bool   `json:"suspended"`
}

// Loop runs every movement slot once per tick and then advances the world.
// All slot calls happen on the loop's goroutine while it holds mu.
type Loop struct {
	mu     sync.Mutex
	config LoopConfig
	world  Advancer
	deps   Deps
	hooks  LoopHooks
	slots  map[string]*Slot
	tick   uint64
}

func NewLoop(cfg LoopConfig, world Advancer, deps Deps, hooks LoopHooks) *Loop {
	return &Loop{
		config: cfg,
		world:  world,
		deps:   deps.normalized(),
		hooks:  hooks,
		slots:  make(map[string]*Slot),
	}
}

// Assign finalizes whatever pursuit the owner was running and initializes
// the new one.
func (l *Loop) Assign(ctx context.Context, owner movement.Owner, pursuit *movement.Pursuit) {
	if owner == nil || pursuit == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if previous, ok := l.slots[owner.ID()]; ok {
		previous.Pursuit.Finalize(ctx, previous.Owner)
	}
	l.slots[owner.ID()] = &Slot{Owner: owner, Pursuit: pursuit}
	pursuit.Initialize(ctx, owner)
	l.deps.Metrics.Store(MetricSlots, uint64(len(l.slots)))
}

// Clear finalizes and drops the owner's slot.
func (l *Loop) Clear(ctx context.Context, ownerID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[ownerID]
	if !ok {
		return false
	}
	slot.Pursuit.Finalize(ctx, slot.Owner)
	delete(l.slots, ownerID)
	l.deps.Metrics.Store(MetricSlots, uint64(len(l.slots)))
	return true
}

// Interrupt suspends the owner's pursuit without dropping the slot. The
// pursuit stays inert until Reset.
func (l *Loop) Interrupt(ctx context.Context, ownerID string) bool {
	return l.withSlot(ownerID, func(slot *Slot) {
		slot.Suspended = true
		slot.Pursuit.Interrupt(ctx, slot.Owner)
	})
}

// Reset restarts the owner's pursuit, typically after a stun ends.
func (l *Loop) Reset(ctx context.Context, ownerID string) bool {
	return l.withSlot(ownerID, func(slot *Slot) {
		slot.Suspended = false
		slot.Pursuit.Reset(ctx, slot.Owner)
	})
}

// NotifySpeedChanged forwards a stat change to the owner's pursuit.
func (l *Loop) NotifySpeedChanged(ownerID string) bool {
	return l.withSlot(ownerID, func(slot *Slot) {
		slot.Pursuit.SpeedChanged()
	})
}

// Do runs fn while holding the loop lock so world mutations never interleave
// with a tick.
func (l *Loop) Do(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

func (l *Loop) withSlot(ownerID string, fn func(*Slot)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[ownerID]
	if !ok {
		return false
	}
	fn(slot)
	return true
}

// Step runs one tick and returns the owners whose pursuit terminated.
func (l *Loop) Step(ctx context.Context, elapsed time.Duration) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	started := l.deps.Clock.Now()
	l.tick++
	if l.hooks.BeforeStep != nil {
		l.hooks.BeforeStep(ctx, l.tick)
	}

	ids := make([]string, 0, len(l.slots))
	for id := range l.slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var terminated []string
	for _, id := range ids {
		slot := l.slots[id]
		if slot.Suspended {
			continue
		}
		if slot.Pursuit.Update(ctx, slot.Owner, l.tick, elapsed) {
			continue
		}
		slot.Pursuit.Finalize(ctx, slot.Owner)
		delete(l.slots, id)
		terminated = append(terminated, id)
		l.deps.Logger.Printf("pursuit for %s ended: target %s no longer valid", id, slot.Pursuit.Target().ID)
	}

	if l.world != nil {
		l.world.Advance(elapsed)
	}
	if l.hooks.AfterStep != nil {
		l.hooks.AfterStep(ctx, l.tick, terminated)
	}

	l.deps.Metrics.Add(MetricTicks, 1)
	l.deps.Metrics.Store(MetricSlots, uint64(len(l.slots)))
	if len(terminated) > 0 {
		l.deps.Metrics.Add(MetricTerminated, uint64(len(terminated)))
	}
	l.deps.Metrics.Store(MetricTickLatency, uint64(l.deps.Clock.Now().Sub(started).Microseconds()))
	return terminated
}

// Run steps the loop at the configured tick rate until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.config.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := l.deps.Clock.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			if elapsed <= 0 {
				elapsed = interval
			}
			last = now
			l.Step(ctx, elapsed)
		}
	}
}

func (l *Loop) Tick() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tick
}

// Slots returns the status of every slot ordered by owner.
func (l *Loop) Slots() []SlotStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	statuses := make([]SlotStatus, 0, len(l.slots))
	for id, slot := range l.slots {
		status := SlotStatus{
			OwnerID:   id,
			TargetID:  slot.Pursuit.Target().ID,
			Behavior:  slot.Pursuit.Kind().String(),
			Reached:   slot.Pursuit.TargetReached(),
			Suspended: slot.Suspended,
		}
		if assignment := slot.Owner.Assignment(); assignment.Is(slot.Pursuit.Kind()) {
			status.State = assignment.State.String()
		} else {
			status.State = movement.StateInactive.String()
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].OwnerID < statuses[j].OwnerID
	})
	return statuses
}
