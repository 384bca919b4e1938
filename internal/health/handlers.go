package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// draining is flipped during graceful shutdown so load balancers stop
// routing before the listener closes. Zero value means ready.
var draining atomic.Bool

// SetReady toggles the global readiness gate.
func SetReady(ready bool) {
	draining.Store(!ready)
}

// Check probes one named dependency and returns nil when it is usable.
type Check struct {
	Name  string
	Probe func() error
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checks []Check
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready runs every registered probe and reports per-dependency status.
func (h Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	if draining.Load() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "draining"})
		return
	}
	status := make(map[string]string, len(h.Checks))
	healthy := true
	for _, check := range h.Checks {
		if err := check.Probe(); err != nil {
			status[check.Name] = err.Error()
			healthy = false
			continue
		}
		status[check.Name] = "ok"
	}
	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(status)
}
