package world

const (
	DefaultSeed      = "pursuit"
	DefaultWidth     = 800.0
	DefaultHeight    = 600.0
	DefaultCellSize  = 32.0
	DefaultClearance = 14.0

	ObstacleSpawnMargin = 100.0
	ObstacleMinWidth    = 60.0
	ObstacleMaxWidth    = 140.0
	ObstacleMinHeight   = 60.0
	ObstacleMaxHeight   = 140.0

	// MeleeRange is the minimum melee reach between two bounding spheres.
	MeleeRange = 5.0
	// MeleeLeeway is added to combined radii when computing melee reach.
	MeleeLeeway = 4.0 / 3.0

	// WaypointReachedEpsilon is how close a spline must get to a waypoint
	// before moving on to the next one.
	WaypointReachedEpsilon = 0.05
)
