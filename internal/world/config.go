package world

import "strings"

// Config describes the map the reference collaborators operate on.
type Config struct {
	Seed          string     `json:"seed" yaml:"seed"`
	Width         float64    `json:"width" yaml:"width"`
	Height        float64    `json:"height" yaml:"height"`
	CellSize      float64    `json:"cellSize" yaml:"cell_size"`
	Clearance     float64    `json:"clearance" yaml:"clearance"`
	ObstacleCount int        `json:"obstacleCount" yaml:"obstacle_count"`
	Obstacles     []Obstacle `json:"obstacles,omitempty" yaml:"obstacles"`
}

func DefaultConfig() Config {
	return Config{
		Seed:      DefaultSeed,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		CellSize:  DefaultCellSize,
		Clearance: DefaultClearance,
	}
}

func (cfg Config) Normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = DefaultSeed
	}
	if normalized.Width <= 0 {
		normalized.Width = DefaultWidth
	}
	if normalized.Height <= 0 {
		normalized.Height = DefaultHeight
	}
	if normalized.CellSize <= 0 {
		normalized.CellSize = DefaultCellSize
	}
	if normalized.Clearance < 0 {
		normalized.Clearance = 0
	}
	if normalized.ObstacleCount < 0 {
		normalized.ObstacleCount = 0
	}
	if len(cfg.Obstacles) > 0 {
		normalized.Obstacles = append([]Obstacle(nil), cfg.Obstacles...)
	}
	return normalized
}
