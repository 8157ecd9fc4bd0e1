package movement

import "time"

const (
	DefaultRecalculationRange = 1.5
	DefaultRecheckInterval    = 100 * time.Millisecond
)

// Config carries the tunables injected into every pursuit at construction.
type Config struct {
	// RecalculationRange is the slack added to the owner's bounding radius
	// before target movement counts as significant.
	RecalculationRange float64 `json:"recalculationRange" yaml:"recalculation_range"`
	// RecheckInterval is the period of the displacement check.
	RecheckInterval time.Duration `json:"recheckInterval" yaml:"recheck_interval"`
	// CompanionDirectPath lets a companion following its controller request
	// unvalidated direct paths.
	CompanionDirectPath bool `json:"companionDirectPath" yaml:"companion_direct_path"`
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		RecalculationRange:  DefaultRecalculationRange,
		RecheckInterval:     DefaultRecheckInterval,
		CompanionDirectPath: true,
	}
}

// Normalized replaces out-of-range values with defaults.
func (cfg Config) Normalized() Config {
	normalized := cfg
	if normalized.RecalculationRange < 0 {
		normalized.RecalculationRange = 0
	}
	if normalized.RecheckInterval <= 0 {
		normalized.RecheckInterval = DefaultRecheckInterval
	}
	return normalized
}
