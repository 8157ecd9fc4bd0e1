package observability

import (
	"net/http"
	"net/http/pprof"
)

// Config captures opt-in observability toggles for the debug server.
type Config struct {
	EnablePprof bool `json:"enablePprof" yaml:"enable_pprof"`
}

// Mount registers the enabled profiling endpoints on mux.
func (c Config) Mount(mux *http.ServeMux) {
	if mux == nil || !c.EnablePprof {
		return
	}
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}
