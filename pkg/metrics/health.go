package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cuemby/chainflow/pkg/engine"
)

// HealthStatus is the JSON body served by the health endpoints.
type HealthStatus struct {
	Status     string            `json:"status"` // "healthy", "unhealthy", "ready", "not_ready"
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components,omitempty"`
	Message    string            `json:"message,omitempty"`
	Version    string            `json:"version,omitempty"`
	Uptime     string            `json:"uptime,omitempty"`

	// Engine snapshot, present once an engine has been bound.
	Chains       int    `json:"chains,omitempty"`
	ActiveChains int    `json:"active_chains,omitempty"`
	Dispatches   uint64 `json:"dispatches,omitempty"`
}

// ComponentHealth tracks the health of a single component.
type ComponentHealth struct {
	Name    string
	Healthy bool
	Message string
	Updated time.Time
}

// HealthChecker aggregates component health reports and, when an engine
// is bound, folds live engine state into every response.
type HealthChecker struct {
	mu         sync.RWMutex
	components map[string]ComponentHealth
	startTime  time.Time
	version    string
	eng        *engine.Engine
}

var healthChecker = &HealthChecker{
	components: make(map[string]ComponentHealth),
	startTime:  time.Now(),
}

// criticalComponents must all report healthy before /ready reports ready.
var criticalComponents = []string{"engine", "dual_queue", "telemetry"}

// SetVersion sets the version string included in health responses.
func SetVersion(version string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()
	healthChecker.version = version
}

// BindEngine attaches eng so health responses include a live snapshot of
// chain and dispatch state.
func BindEngine(eng *engine.Engine) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()
	healthChecker.eng = eng
}

// RegisterComponent registers or updates a component's health report.
func RegisterComponent(name string, healthy bool, message string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()

	healthChecker.components[name] = ComponentHealth{
		Name:    name,
		Healthy: healthy,
		Message: message,
		Updated: time.Now(),
	}
}

// UpdateComponent updates the health status of a component.
func UpdateComponent(name string, healthy bool, message string) {
	RegisterComponent(name, healthy, message)
}

// snapshot reads the bound engine's state, if any. Caller holds the read
// lock.
func (hc *HealthChecker) snapshot(status *HealthStatus) {
	if hc.eng == nil {
		return
	}
	info := hc.eng.SystemInfo()
	status.Chains = info.ChainCount
	status.Dispatches = info.DispatchCount
	for _, name := range info.Chains {
		if ci, err := hc.eng.ChainInfo(name); err == nil && ci.Active {
			status.ActiveChains++
		}
	}
}

// GetHealth returns the overall health status: unhealthy if any
// registered component reports unhealthy.
func GetHealth() HealthStatus {
	healthChecker.mu.RLock()
	defer healthChecker.mu.RUnlock()

	status := HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now(),
		Components: make(map[string]string),
		Version:    healthChecker.version,
		Uptime:     time.Since(healthChecker.startTime).String(),
	}

	for name, comp := range healthChecker.components {
		if !comp.Healthy {
			status.Status = "unhealthy"
			status.Components[name] = "unhealthy: " + comp.Message
		} else {
			status.Components[name] = "healthy"
		}
	}

	healthChecker.snapshot(&status)
	return status
}

// GetReadiness reports whether every critical component has registered
// healthy. Unregistered critical components count as not ready, so a
// process that has not finished wiring itself up never reports ready.
func GetReadiness() HealthStatus {
	healthChecker.mu.RLock()
	defer healthChecker.mu.RUnlock()

	status := HealthStatus{
		Status:     "ready",
		Timestamp:  time.Now(),
		Components: make(map[string]string),
		Version:    healthChecker.version,
		Uptime:     time.Since(healthChecker.startTime).String(),
	}

	for _, name := range criticalComponents {
		comp, exists := healthChecker.components[name]
		switch {
		case !exists:
			status.Status = "not_ready"
			status.Message = "waiting for " + name + " initialization"
			status.Components[name] = "not registered"
		case !comp.Healthy:
			status.Status = "not_ready"
			status.Message = "waiting for " + name
			status.Components[name] = "not ready: " + comp.Message
		default:
			status.Components[name] = "ready"
		}
	}

	healthChecker.snapshot(&status)
	return status
}

func writeStatus(w http.ResponseWriter, status HealthStatus, okWhen string) {
	w.Header().Set("Content-Type", "application/json")
	if status.Status != okWhen {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}

// HealthHandler serves /health.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, GetHealth(), "healthy")
	}
}

// ReadyHandler serves /ready.
func ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, GetReadiness(), "ready")
	}
}

// LivenessHandler serves /live: 200 whenever the process is running.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "alive",
			"uptime": time.Since(healthChecker.startTime).String(),
		})
	}
}
