package operators_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
	"github.com/cuemby/chainflow/pkg/operators"
)

// fakeClock is a deterministic Clock for operator tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(0, 0)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func noopTicker() {}

func newTestEngine(t *testing.T, clock engine.Clock) *engine.Engine {
	t.Helper()
	eng, err := engine.New(engine.Config{Clock: clock, Ticker: noopTicker})
	require.NoError(t, err)
	return eng
}

func TestOneShotHaltRunsActionOnce(t *testing.T) {
	eng := newTestEngine(t, newFakeClock())
	count := 0

	require.NoError(t, eng.DefineChain("c", true))
	require.NoError(t, operators.OneShotHalt(eng, "shot", func(el *engine.Element) { count++ }))
	require.NoError(t, eng.EndChain())
	require.NoError(t, eng.Finalize())
	require.NoError(t, eng.EnableChain("c"))

	for i := 0; i < 3; i++ {
		_, err := eng.SendSystemEvent(cfevents.New("CF_TIMER_EVENT", nil))
		require.NoError(t, err)
		require.NoError(t, eng.StepOnce())
	}

	assert.Equal(t, 1, count, "one-shot action must run exactly once")
}

func TestWaitTimeHaltsThenDisables(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(t, clock)

	var log []string
	require.NoError(t, eng.DefineChain("c", true))
	require.NoError(t, operators.LogMessage(eng, "a", "A"))
	require.NoError(t, operators.WaitTime(eng, "wait", 10*time.Second))
	require.NoError(t, operators.OneShotHalt(eng, "b", func(el *engine.Element) { log = append(log, "B") }))
	require.NoError(t, eng.EndChain())
	require.NoError(t, eng.Finalize())
	require.NoError(t, eng.EnableChain("c"))

	tick := func() {
		_, err := eng.SendSystemEvent(cfevents.New("CF_TIMER_EVENT", nil))
		require.NoError(t, err)
		require.NoError(t, eng.StepOnce())
	}

	tick()
	assert.Empty(t, log, "B must not log before the wait elapses")

	clock.Advance(5 * time.Second)
	tick()
	assert.Empty(t, log)

	clock.Advance(6 * time.Second)
	tick()
	assert.Equal(t, []string{"B"}, log)

	// further ticks must not re-log B
	tick()
	assert.Equal(t, []string{"B"}, log)
}

func TestWaitForEventPasses(t *testing.T) {
	eng := newTestEngine(t, newFakeClock())
	done := false

	require.NoError(t, eng.DefineChain("c", true))
	require.NoError(t, operators.WaitForEvent(eng, "wait", operators.WaitForEventConfig{
		TargetEvent: "CF_SECOND_EVENT", Count: 3,
	}))
	require.NoError(t, operators.OneShotHalt(eng, "done", func(el *engine.Element) { done = true }))
	require.NoError(t, eng.EndChain())
	require.NoError(t, eng.Finalize())
	require.NoError(t, eng.EnableChain("c"))

	for i := 0; i < 2; i++ {
		_, err := eng.SendSystemEvent(cfevents.New("CF_SECOND_EVENT", i))
		require.NoError(t, err)
		require.NoError(t, eng.StepOnce())
		assert.False(t, done)
	}

	_, err := eng.SendSystemEvent(cfevents.New("CF_SECOND_EVENT", 2))
	require.NoError(t, err)
	require.NoError(t, eng.StepOnce())
	assert.True(t, done, "third second-rollover should pass the wait")
}

func TestWaitForEventTimeoutResetsChain(t *testing.T) {
	eng := newTestEngine(t, newFakeClock())
	errorCalls := 0

	require.NoError(t, eng.DefineChain("c", true))
	require.NoError(t, operators.WaitForEvent(eng, "wait", operators.WaitForEventConfig{
		TargetEvent: "CF_SECOND_EVENT", Count: 5,
		TimeoutEvent: "CF_TIMER_EVENT", Timeout: 3, ResetFlag: true,
		ErrorFn: func(el *engine.Element) { errorCalls++ },
	}))
	require.NoError(t, eng.EndChain())
	require.NoError(t, eng.Finalize())
	require.NoError(t, eng.EnableChain("c"))

	for i := 0; i < 3; i++ {
		_, err := eng.SendSystemEvent(cfevents.New("CF_TIMER_EVENT", nil))
		require.NoError(t, err)
		require.NoError(t, eng.StepOnce())
	}

	assert.Equal(t, 1, errorCalls)
	active, err := eng.IsChainActive("c")
	require.NoError(t, err)
	assert.True(t, active, "CF_RESET re-enables the chain rather than terminating it")
}

func TestVerifyFailsToTerminate(t *testing.T) {
	eng := newTestEngine(t, newFakeClock())
	failed := false

	require.NoError(t, eng.DefineChain("c", true))
	require.NoError(t, operators.Verify(eng, "check", operators.VerifyConfig{
		Predicate: func(el *engine.Element, evt cfevents.Event) bool { return evt.ID == "GOOD" },
		FailureFn: func(el *engine.Element) { failed = true },
	}))
	require.NoError(t, eng.EndChain())
	require.NoError(t, eng.Finalize())
	require.NoError(t, eng.EnableChain("c"))

	_, err := eng.SendSystemEvent(cfevents.New("CF_TIMER_EVENT", nil))
	require.NoError(t, err)

	require.NoError(t, eng.StepOnce())
	assert.True(t, failed)

	active, err := eng.IsChainActive("c")
	require.NoError(t, err)
	assert.False(t, active, "CF_TERMINATE disables the chain")
}

func TestWatchdogSteadyStateNeverTrips(t *testing.T) {
	eng := newTestEngine(t, newFakeClock())
	tripped := false

	require.NoError(t, eng.AddEventID("WD_PAT", "pat"))
	require.NoError(t, eng.AddEventID("WD_START", "start"))
	require.NoError(t, eng.AddEventID("WD_CANCEL", "cancel"))

	require.NoError(t, eng.DefineChain("a", true))
	require.NoError(t, operators.Watchdog(eng, "wd", operators.WatchdogConfig{
		PatEvent: "WD_PAT", StartEvent: "WD_START", CancelEvent: "WD_CANCEL",
		TimeEvent: "CF_SECOND_EVENT", PatTimeOut: 5,
		FailureFn: func(el *engine.Element) { tripped = true },
	}))
	require.NoError(t, eng.EndChain())
	require.NoError(t, eng.Finalize())
	require.NoError(t, eng.EnableChain("a"))

	for i := 0; i < 10; i++ {
		_, err := eng.SendSystemEvent(cfevents.New("WD_PAT", nil))
		require.NoError(t, err)
		require.NoError(t, eng.StepOnce())
		_, err = eng.SendSystemEvent(cfevents.New("CF_SECOND_EVENT", nil))
		require.NoError(t, err)
		require.NoError(t, eng.StepOnce())
	}

	assert.False(t, tripped)
}

func TestWatchdogTransitionsToOffAndBackTrips(t *testing.T) {
	eng := newTestEngine(t, newFakeClock())
	tripped := false

	require.NoError(t, eng.AddEventID("WD_PAT", "pat"))
	require.NoError(t, eng.AddEventID("WD_START", "start"))
	require.NoError(t, eng.AddEventID("WD_CANCEL", "cancel"))

	require.NoError(t, eng.DefineChain("a", true))
	require.NoError(t, operators.Watchdog(eng, "wd", operators.WatchdogConfig{
		PatEvent: "WD_PAT", StartEvent: "WD_START", CancelEvent: "WD_CANCEL",
		TimeEvent: "CF_SECOND_EVENT", PatTimeOut: 5,
		FailureFn: func(el *engine.Element) { tripped = true },
	}))
	require.NoError(t, eng.EndChain())
	require.NoError(t, eng.Finalize())
	require.NoError(t, eng.EnableChain("a"))

	send := func(id string) {
		_, err := eng.SendSystemEvent(cfevents.New(id, nil))
		require.NoError(t, err)
		require.NoError(t, eng.StepOnce())
	}

	send("WD_PAT")
	send("WD_CANCEL")
	// while OFF, timer events must not trip the watchdog
	for i := 0; i < 8; i++ {
		send("CF_SECOND_EVENT")
	}
	assert.False(t, tripped)

	send("WD_START")
	for i := 0; i < 4; i++ {
		send("CF_SECOND_EVENT")
		assert.False(t, tripped)
	}
	send("CF_SECOND_EVENT")
	assert.True(t, tripped, "5th second-event after restart should trip the watchdog")
}

func TestJoinORWaitsThenDisablesWatched(t *testing.T) {
	eng := newTestEngine(t, newFakeClock())

	require.NoError(t, eng.DefineChain("worker-a", true))
	require.NoError(t, operators.LogMessage(eng, "noop", "noop"))
	require.NoError(t, eng.EndChain())

	require.NoError(t, eng.DefineChain("worker-b", true))
	require.NoError(t, operators.LogMessage(eng, "noop", "noop"))
	require.NoError(t, eng.EndChain())

	joined := false
	require.NoError(t, eng.DefineChain("joiner", true))
	require.NoError(t, operators.JoinOR(eng, "join", []string{"worker-a", "worker-b"}))
	require.NoError(t, operators.OneShotHalt(eng, "after", func(el *engine.Element) { joined = true }))
	require.NoError(t, eng.EndChain())

	require.NoError(t, eng.Finalize())
	require.NoError(t, eng.EnableChain("worker-a"))
	require.NoError(t, eng.EnableChain("worker-b"))
	require.NoError(t, eng.EnableChain("joiner"))

	tick := func() {
		_, err := eng.SendSystemEvent(cfevents.New("CF_TIMER_EVENT", nil))
		require.NoError(t, err)
		require.NoError(t, eng.StepOnce())
	}

	tick()
	assert.False(t, joined, "join must wait while either chain is active")

	require.NoError(t, eng.DisableChain("worker-a"))
	tick()
	assert.False(t, joined, "join must wait while worker-b is still active")

	require.NoError(t, eng.DisableChain("worker-b"))
	tick()
	assert.True(t, joined)
}

func TestJoinANDPassesThroughOnceAllInactive(t *testing.T) {
	eng := newTestEngine(t, newFakeClock())

	require.NoError(t, eng.DefineChain("worker", true))
	require.NoError(t, operators.LogMessage(eng, "noop", "noop"))
	require.NoError(t, eng.EndChain())

	passed := false
	require.NoError(t, eng.DefineChain("joiner", true))
	require.NoError(t, operators.JoinAND(eng, "join", []string{"worker"}))
	require.NoError(t, operators.OneShotHalt(eng, "after", func(el *engine.Element) { passed = true }))
	require.NoError(t, eng.EndChain())

	require.NoError(t, eng.Finalize())
	require.NoError(t, eng.EnableChain("worker"))
	require.NoError(t, eng.EnableChain("joiner"))

	tick := func() {
		_, err := eng.SendSystemEvent(cfevents.New("CF_TIMER_EVENT", nil))
		require.NoError(t, err)
		require.NoError(t, eng.StepOnce())
	}

	tick()
	assert.False(t, passed)

	require.NoError(t, eng.DisableChain("worker"))
	tick()
	assert.True(t, passed)
}

func TestExceptionHandlerTripsAndDisablesControlledChains(t *testing.T) {
	eng := newTestEngine(t, newFakeClock())
	tripped := false

	require.NoError(t, eng.DefineChain("victim", true))
	require.NoError(t, operators.LogMessage(eng, "noop", "noop"))
	require.NoError(t, eng.EndChain())

	require.NoError(t, eng.DefineChain("guard", true))
	require.NoError(t, operators.ExceptionHandler(eng, "handler", operators.ExceptionHandlerConfig{
		WatchedEvents:   []string{"ALARM"},
		Count:           2,
		ChainsToControl: []string{"victim"},
		FailureFn:       func(el *engine.Element) { tripped = true },
	}))
	require.NoError(t, eng.EndChain())

	require.NoError(t, eng.AddEventID("ALARM", "alarm"))
	require.NoError(t, eng.Finalize())
	require.NoError(t, eng.EnableChain("victim"))
	require.NoError(t, eng.EnableChain("guard"))

	for i := 0; i < 2; i++ {
		_, err := eng.SendSystemEvent(cfevents.New("ALARM", nil))
		require.NoError(t, err)
		require.NoError(t, eng.StepOnce())
	}

	assert.True(t, tripped)
	active, err := eng.IsChainActive("victim")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestChainReferencingOperatorsRejectUnknownNames(t *testing.T) {
	eng := newTestEngine(t, newFakeClock())

	require.NoError(t, eng.DefineChain("c", true))
	assert.ErrorIs(t, operators.EnableChains(eng, "en", []string{"nope"}), engine.ErrUnknownChain)
	assert.ErrorIs(t, operators.JoinOR(eng, "join", []string{"nope"}), engine.ErrUnknownChain)
	assert.ErrorIs(t, operators.SendNamedEventOp(eng, "send", "nope", cfevents.New("CF_TIMER_EVENT", nil)), engine.ErrUnknownChain)

	// a reserved name is accepted even though the chain is defined later
	eng.AddReservedChainName("later")
	assert.NoError(t, operators.EnableChains(eng, "en2", []string{"later"}))
}

func TestCatalogHasNoDuplicateNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range operators.Catalog() {
		assert.False(t, seen[name], "duplicate operator name %q", name)
		seen[name] = true
	}
	assert.NotEmpty(t, operators.Catalog())
}
