package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
)

func resetHealthChecker() {
	healthChecker = &HealthChecker{
		components: make(map[string]ComponentHealth),
		startTime:  time.Now(),
	}
}

func TestRegisterAndUpdateComponent(t *testing.T) {
	resetHealthChecker()

	RegisterComponent("engine", true, "finalized")
	comp := healthChecker.components["engine"]
	if !comp.Healthy || comp.Message != "finalized" {
		t.Errorf("unexpected component state after register: %+v", comp)
	}

	UpdateComponent("engine", false, "dispatch error")
	comp = healthChecker.components["engine"]
	if comp.Healthy || comp.Message != "dispatch error" {
		t.Errorf("unexpected component state after update: %+v", comp)
	}
}

func TestGetHealthReflectsWorstComponent(t *testing.T) {
	resetHealthChecker()
	SetVersion("1.0.0")

	RegisterComponent("engine", true, "")
	RegisterComponent("telemetry", true, "")
	health := GetHealth()
	if health.Status != "healthy" {
		t.Errorf("expected healthy, got %q", health.Status)
	}
	if health.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", health.Version)
	}

	UpdateComponent("telemetry", false, "broker stopped")
	health = GetHealth()
	if health.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %q", health.Status)
	}
	if health.Components["telemetry"] != "unhealthy: broker stopped" {
		t.Errorf("unexpected telemetry status: %q", health.Components["telemetry"])
	}
}

func TestGetReadinessRequiresEveryCriticalComponent(t *testing.T) {
	resetHealthChecker()

	RegisterComponent("engine", true, "")
	// dual_queue and telemetry not registered yet
	readiness := GetReadiness()
	if readiness.Status != "not_ready" {
		t.Errorf("expected not_ready, got %q", readiness.Status)
	}
	if readiness.Message == "" {
		t.Error("expected a message naming the missing component")
	}

	RegisterComponent("dual_queue", true, "")
	RegisterComponent("telemetry", true, "")
	readiness = GetReadiness()
	if readiness.Status != "ready" {
		t.Errorf("expected ready, got %q", readiness.Status)
	}

	UpdateComponent("dual_queue", false, "rebuilding")
	readiness = GetReadiness()
	if readiness.Status != "not_ready" {
		t.Errorf("expected not_ready after critical component degraded, got %q", readiness.Status)
	}
}

func TestBoundEngineSnapshotAppearsInHealth(t *testing.T) {
	resetHealthChecker()

	eng, err := engine.New(engine.Config{Ticker: func() {}})
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.DefineChain("seq", true); err != nil {
		t.Fatal(err)
	}
	noop := func(*engine.Element, cfevents.Event) engine.ReturnCode { return engine.CFHalt }
	if err := eng.AddElement(noop, nil, nil, nil, "el"); err != nil {
		t.Fatal(err)
	}
	if err := eng.EndChain(); err != nil {
		t.Fatal(err)
	}
	if err := eng.Finalize(); err != nil {
		t.Fatal(err)
	}
	if err := eng.EnableChain("seq"); err != nil {
		t.Fatal(err)
	}

	BindEngine(eng)
	health := GetHealth()

	if health.Chains != 1 {
		t.Errorf("expected 1 chain in snapshot, got %d", health.Chains)
	}
	if health.ActiveChains != 1 {
		t.Errorf("expected 1 active chain in snapshot, got %d", health.ActiveChains)
	}
}

func TestHealthHandlerStatusCodes(t *testing.T) {
	resetHealthChecker()
	RegisterComponent("engine", true, "")

	w := httptest.NewRecorder()
	HealthHandler()(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	UpdateComponent("engine", false, "broken")
	w = httptest.NewRecorder()
	HealthHandler()(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}

	var health HealthStatus
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if health.Status != "unhealthy" {
		t.Errorf("expected unhealthy body, got %q", health.Status)
	}
}

func TestReadyHandlerStatusCodes(t *testing.T) {
	resetHealthChecker()

	w := httptest.NewRecorder()
	ReadyHandler()(w, httptest.NewRequest("GET", "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before components register, got %d", w.Code)
	}

	RegisterComponent("engine", true, "")
	RegisterComponent("dual_queue", true, "")
	RegisterComponent("telemetry", true, "")

	w = httptest.NewRecorder()
	ReadyHandler()(w, httptest.NewRequest("GET", "/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 once critical components register, got %d", w.Code)
	}
}

func TestLivenessHandlerAlwaysOK(t *testing.T) {
	resetHealthChecker()

	w := httptest.NewRecorder()
	LivenessHandler()(w, httptest.NewRequest("GET", "/live", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "alive" || response["uptime"] == "" {
		t.Errorf("unexpected liveness body: %v", response)
	}
}
