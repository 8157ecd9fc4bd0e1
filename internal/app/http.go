package app

import (
	"encoding/json"
	"net/http"

	"mine-and-die/pursuit/internal/config"
	"mine-and-die/pursuit/internal/sim"
	"mine-and-die/pursuit/internal/telemetry"
	"mine-and-die/pursuit/logging"
)

// SlotSource exposes the loop state rendered by /debug/slots.
type SlotSource interface {
	Tick() uint64
	Slots() []sim.SlotStatus
}

// StatsSource exposes router counters.
type StatsSource interface {
	Stats() logging.RouterStats
}

type slotsResponse struct {
	Tick    uint64            `json:"tick"`
	Slots   []sim.SlotStatus  `json:"slots"`
	Metrics map[string]uint64 `json:"metrics"`
	Events  struct {
		Total    uint64                       `json:"total"`
		Dropped  uint64                       `json:"dropped"`
		Filtered uint64                       `json:"filtered"`
		ByType   map[logging.EventType]uint64 `json:"byType,omitempty"`
		Sinks    map[string]logging.SinkStats `json:"sinks,omitempty"`
	} `json:"events"`
}

// NewHTTPHandler builds the debug surface: health, slot inspection, the live
// event stream and optional profiling.
func NewHTTPHandler(loop SlotSource, counters *telemetry.Counters, stats StatsSource, events http.Handler, debug config.DebugConfig) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/debug/slots", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		resp := slotsResponse{Tick: loop.Tick(), Slots: loop.Slots()}
		if counters != nil {
			resp.Metrics = counters.Snapshot()
		}
		if stats != nil {
			s := stats.Stats()
			resp.Events.Total = s.EventsTotal
			resp.Events.Dropped = s.DroppedTotal
			resp.Events.Filtered = s.FilteredTotal
			resp.Events.ByType = s.ByType
			resp.Events.Sinks = s.Sinks
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	if events != nil {
		mux.Handle("/debug/events", events)
	}
	debug.Observability.Mount(mux)
	return mux
}
