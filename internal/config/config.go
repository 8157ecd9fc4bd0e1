package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"mine-and-die/pursuit/internal/movement"
	"mine-and-die/pursuit/internal/observability"
	"mine-and-die/pursuit/internal/sim"
	"mine-and-die/pursuit/internal/world"
	"mine-and-die/pursuit/logging"
)

const (
	EnvRecalculationRange = "PURSUIT_RECALC_RANGE"
	EnvTickRate           = "PURSUIT_TICK_RATE"
	EnvDebugAddr          = "PURSUIT_DEBUG_ADDR"
	EnvEnablePprof        = "ENABLE_PPROF"
)

// Config is the on-disk server configuration.
type Config struct {
	Movement movement.Config `json:"movement" yaml:"movement"`
	Loop     sim.LoopConfig  `json:"loop" yaml:"loop"`
	World    world.Config    `json:"world" yaml:"world"`
	Log      logging.Config  `json:"log" yaml:"log"`
	Debug    DebugConfig     `json:"debug" yaml:"debug"`
}

// DebugConfig controls the HTTP debug surface.
type DebugConfig struct {
	Addr          string               `json:"addr" yaml:"addr"`
	Observability observability.Config `json:"observability" yaml:"observability"`
}

func Default() Config {
	return Config{
		Movement: movement.DefaultConfig(),
		Loop:     sim.LoopConfig{TickRate: sim.DefaultTickRate},
		World:    world.DefaultConfig(),
		Log:      logging.DefaultConfig(),
		Debug:    DebugConfig{Addr: ":8090"},
	}
}

func (c Config) Normalized() Config {
	normalized := c
	normalized.Movement = c.Movement.Normalized()
	if normalized.Loop.TickRate <= 0 {
		normalized.Loop.TickRate = sim.DefaultTickRate
	}
	normalized.World = c.World.Normalized()
	if normalized.Log.BufferSize <= 0 {
		normalized.Log.BufferSize = logging.DefaultConfig().BufferSize
	}
	if len(normalized.Log.EnabledSinks) == 0 {
		normalized.Log.EnabledSinks = logging.DefaultConfig().EnabledSinks
	}
	return normalized
}

// Load reads path on top of the defaults. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg.Normalized(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg.Normalized(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg.Normalized(), nil
}

// ApplyEnv overrides values from the environment. Malformed values are
// reported through report and otherwise ignored.
func ApplyEnv(cfg Config, lookup func(string) (string, bool), report func(format string, args ...any)) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if report == nil {
		report = func(string, ...any) {}
	}
	if raw, ok := lookup(EnvRecalculationRange); ok && raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Movement.RecalculationRange = value
		} else {
			report("invalid %s=%q: %v", EnvRecalculationRange, raw, err)
		}
	}
	if raw, ok := lookup(EnvTickRate); ok && raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.Loop.TickRate = value
		} else {
			report("invalid %s=%q: %v", EnvTickRate, raw, err)
		}
	}
	if raw, ok := lookup(EnvDebugAddr); ok && raw != "" {
		cfg.Debug.Addr = raw
	}
	if raw, ok := lookup(EnvEnablePprof); ok && raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.Debug.Observability.EnablePprof = value
		} else {
			report("invalid %s=%q: %v", EnvEnablePprof, raw, err)
		}
	}
	return cfg.Normalized()
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}
