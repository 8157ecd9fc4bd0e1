package logging

import "time"

// Config drives the router. Floors overrides MinimumSeverity per event type
// or category, e.g. "movement.replanned" or "movement"; a type entry wins.
type Config struct {
	EnabledSinks     []string            `json:"enabledSinks" yaml:"enabled_sinks"`
	BufferSize       int                 `json:"bufferSize" yaml:"buffer_size"`
	MinimumSeverity  Severity            `json:"minimumSeverity" yaml:"minimum_severity"`
	Floors           map[string]Severity `json:"floors,omitempty" yaml:"floors"`
	Fields           map[string]any      `json:"fields,omitempty" yaml:"fields"`
	JSON             JSONConfig          `json:"json" yaml:"json"`
	DropWarnInterval time.Duration       `json:"dropWarnInterval" yaml:"drop_warn_interval"`
}

type JSONConfig struct {
	FilePath      string        `json:"filePath" yaml:"file_path"`
	FlushInterval time.Duration `json:"flushInterval" yaml:"flush_interval"`
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{"console"},
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		JSON: JSONConfig{
			FlushInterval: 2 * time.Second,
		},
	}
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	return cloneMap(c.Fields)
}

func (c Config) CloneFloors() map[string]Severity {
	if len(c.Floors) == 0 {
		return nil
	}
	out := make(map[string]Severity, len(c.Floors))
	for key, floor := range c.Floors {
		out[key] = floor
	}
	return out
}
