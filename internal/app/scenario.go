package app

import (
	"context"
	"math"

	"mine-and-die/pursuit/internal/movement"
	"mine-and-die/pursuit/internal/sim"
	"mine-and-die/pursuit/internal/world"
)

const (
	HeroID  = "hero"
	WolfID  = "wolf"
	HoundID = "hound"

	FollowOffset = 3.0
	FollowAngle  = math.Pi / 2
)

// Scenario is the demo population: a player patrolling a loop, a wolf
// chasing the player and the player's hound following at its side.
type Scenario struct {
	world  *world.World
	hero   *world.Unit
	wolf   *world.Unit
	hound  *world.Unit
	patrol []world.Vec3
	leg    int
	nav    *world.Navigator
	follow *movement.Pursuit
}

// PatrolRoute returns the hero's patrol corners for a map of the given size.
func PatrolRoute(width, height float64) []world.Vec3 {
	return []world.Vec3{
		{X: width * 0.25, Y: height * 0.25},
		{X: width * 0.75, Y: height * 0.25},
		{X: width * 0.75, Y: height * 0.75},
		{X: width * 0.25, Y: height * 0.75},
	}
}

// ReservedPoints lists the points obstacle generation must keep clear.
func ReservedPoints(width, height float64) []world.Vec2 {
	route := PatrolRoute(width, height)
	points := make([]world.Vec2, 0, len(route)+1)
	for _, p := range route {
		points = append(points, p.Planar())
	}
	return append(points, world.Vec2{X: width / 2, Y: height / 2})
}

// NewScenario spawns the demo units into w.
func NewScenario(w *world.World) *Scenario {
	cfg := w.Config()
	route := PatrolRoute(cfg.Width, cfg.Height)
	s := &Scenario{
		world:  w,
		patrol: route,
		hero: world.NewUnit(world.UnitConfig{
			ID:        HeroID,
			Kind:      movement.OwnerPlayer,
			Position:  route[0],
			Radius:    1,
			WalkSpeed: 40,
			RunSpeed:  90,
			SwimSpeed: 50,
		}),
		wolf: world.NewUnit(world.UnitConfig{
			ID:       WolfID,
			Kind:     movement.OwnerCreature,
			Position: world.Vec3{X: cfg.Width / 2, Y: cfg.Height / 2},
			Radius:   1,
			RunSpeed: 80,
		}),
		hound: world.NewUnit(world.UnitConfig{
			ID:           HoundID,
			Kind:         movement.OwnerCreature,
			Position:     world.Vec3{X: route[0].X - 20, Y: route[0].Y},
			Radius:       0.5,
			Companion:    true,
			ControllerID: HeroID,
		}),
	}
	w.Add(s.hero)
	w.Add(s.wolf)
	w.Add(s.hound)
	s.nav = world.NewNavigator(w.Grid(), s.hero)
	return s
}

// Assign hands fresh pursuits to the wolf and the hound.
func (s *Scenario) Assign(ctx context.Context, loop *sim.Loop, deps movement.Deps) {
	target := s.world.Handle(HeroID)
	chase := movement.NewChase(target, deps)
	follow := movement.NewFollow(target, FollowOffset, FollowAngle, deps)
	loop.Assign(ctx, s.wolf, chase)
	loop.Assign(ctx, s.hound, follow)
	loop.Do(func() {
		s.follow = follow
	})
}

// Drive keeps the hero patrolling. Every other leg is walked; the hound is
// told about the gait change so it replans with the mirrored gait.
func (s *Scenario) Drive(_ context.Context, _ uint64) {
	spline := s.hero.Spline()
	if !spline.Finished() {
		return
	}
	for range s.patrol {
		s.leg = (s.leg + 1) % len(s.patrol)
		if s.nav.Calculate(s.patrol[s.leg], false).Has(movement.PathNoPath) {
			continue
		}
		walk := s.leg%2 == 1
		if walk != s.hero.Walking() {
			s.hero.SetWalking(walk)
			if s.follow != nil {
				s.follow.SpeedChanged()
			}
		}
		spline.Load(s.nav.Path())
		spline.SetWalk(walk)
		spline.Launch()
		return
	}
}
