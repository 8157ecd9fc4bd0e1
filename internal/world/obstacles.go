package world

import (
	"fmt"
	"math/rand"
)

// Obstacle is an axis-aligned blocking rectangle on the horizontal plane.
type Obstacle struct {
	ID     string  `json:"id" yaml:"id"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// GenerateObstacles scatters count non-overlapping rectangles, keeping a
// clear radius around each reserved point.
func GenerateObstacles(rng *rand.Rand, count int, width, height float64, reserved []Vec2, clearRadius float64) []Obstacle {
	if rng == nil || count <= 0 {
		return nil
	}

	obstacles := make([]Obstacle, 0, count)
	attempts := 0
	maxAttempts := count * 20

	for len(obstacles) < count && attempts < maxAttempts {
		attempts++

		w := RandomDistance(rng, ObstacleMinWidth, ObstacleMaxWidth)
		h := RandomDistance(rng, ObstacleMinHeight, ObstacleMaxHeight)
		maxX := width - ObstacleSpawnMargin - w
		maxY := height - ObstacleSpawnMargin - h
		if maxX <= ObstacleSpawnMargin || maxY <= ObstacleSpawnMargin {
			break
		}

		candidate := Obstacle{
			ID:     fmt.Sprintf("obstacle-%d", len(obstacles)+1),
			X:      RandomDistance(rng, ObstacleSpawnMargin, maxX),
			Y:      RandomDistance(rng, ObstacleSpawnMargin, maxY),
			Width:  w,
			Height: h,
		}

		blocked := false
		for _, point := range reserved {
			if CircleRectOverlap(point.X, point.Y, clearRadius, candidate) {
				blocked = true
				break
			}
		}
		for _, obs := range obstacles {
			if blocked {
				break
			}
			blocked = ObstaclesOverlap(candidate, obs, DefaultClearance)
		}
		if blocked {
			continue
		}

		obstacles = append(obstacles, candidate)
	}

	return obstacles
}
