package world

import (
	"sort"
	"time"

	"mine-and-die/pursuit/internal/movement"
)

// World is the registry of live units. It resolves pursuit targets and owns
// the navigation grid handed to every planner.
type World struct {
	config Config
	grid   *NavigationGrid
	units  map[string]*Unit
}

// New builds an empty world. Configured obstacles are used as-is; when none
// are given, ObstacleCount rectangles are scattered deterministically from
// the seed while keeping reserved points clear.
func New(cfg Config, reserved ...Vec2) *World {
	normalized := cfg.Normalized()
	if len(normalized.Obstacles) == 0 && normalized.ObstacleCount > 0 {
		rng := NewDeterministicRNG(normalized.Seed, "obstacles")
		normalized.Obstacles = GenerateObstacles(rng, normalized.ObstacleCount, normalized.Width, normalized.Height, reserved, normalized.CellSize*2)
	}
	return &World{
		config: normalized,
		grid:   NewNavigationGrid(normalized.Obstacles, normalized.Width, normalized.Height, normalized.CellSize, normalized.Clearance),
		units:  make(map[string]*Unit),
	}
}

func (w *World) Config() Config {
	return w.config
}

func (w *World) Grid() *NavigationGrid {
	return w.grid
}

// Add places u in the world, replacing any unit with the same identifier.
func (w *World) Add(u *Unit) {
	if u == nil || u.id == "" {
		return
	}
	if existing, ok := w.units[u.id]; ok && existing != u {
		existing.inWorld = false
	}
	u.inWorld = true
	w.units[u.id] = u
}

// Remove takes the unit out of the world. Handles to it stop resolving.
func (w *World) Remove(id string) *Unit {
	u, ok := w.units[id]
	if !ok {
		return nil
	}
	u.inWorld = false
	delete(w.units, id)
	return u
}

func (w *World) Unit(id string) (*Unit, bool) {
	u, ok := w.units[id]
	return u, ok
}

// Units returns every unit ordered by identifier.
func (w *World) Units() []*Unit {
	units := make([]*Unit, 0, len(w.units))
	for _, u := range w.units {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool {
		return units[i].id < units[j].id
	})
	return units
}

// Lookup implements movement.Resolver.
func (w *World) Lookup(id string) (movement.Target, bool) {
	u, ok := w.units[id]
	if !ok {
		return nil, false
	}
	return u, true
}

// Handle returns a target handle resolved through this world.
func (w *World) Handle(id string) movement.Handle {
	return movement.NewHandle(id, w)
}

// Planners binds a grid navigator to each owner.
func (w *World) Planners() movement.PlannerFactory {
	return func(owner movement.Owner) movement.PathPlanner {
		return NewNavigator(w.grid, owner)
	}
}

// Advance moves every unit along its spline. Dead or locked units stay put.
func (w *World) Advance(elapsed time.Duration) {
	for _, u := range w.Units() {
		if !u.alive || u.locked {
			continue
		}
		u.spline.Advance(elapsed)
	}
}
