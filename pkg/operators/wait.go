package operators

import (
	"time"

	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
)

type waitTimeState struct {
	delay time.Duration
	start time.Time
}

// WaitTime is a timed wait: init records a wall-clock start
// (read from the engine's injected Clock, so tests can drive it
// deterministically); process returns CF_DISABLE once now-start >= delay,
// otherwise CF_HALT. It only reacts meaningfully to CF_TIMER_EVENT, but
// checks the deadline on every delivered event since the deadline is a
// pure function of the clock, not of which event arrived.
func WaitTime(eng *engine.Engine, name string, delay time.Duration) error {
	st := &waitTimeState{delay: delay}
	return eng.AddElement(
		func(el *engine.Element, _ cfevents.Event) engine.ReturnCode {
			if eng.Now().Sub(st.start) >= st.delay {
				return engine.CFDisable
			}
			return engine.CFHalt
		},
		func(el *engine.Element) {
			st.start = eng.Now()
			el.Data = st
		},
		nil, st, name,
	)
}

// WaitForEventConfig configures WaitForEvent.
type WaitForEventConfig struct {
	TargetEvent string // event id counted toward Count
	Count       int    // occurrences of TargetEvent required to pass

	// TimeoutEvent, if non-empty, is counted toward Timeout; on reaching
	// Timeout, ErrorFn (if set) runs, then the element returns CF_RESET if
	// ResetFlag, else CF_TERMINATE. TimeoutEvent defaults to
	// CF_TIMER_EVENT when left empty but Timeout is positive.
	TimeoutEvent string
	Timeout      int
	ResetFlag    bool
	ErrorFn      Action
}

type waitForEventState struct {
	cfg          WaitForEventConfig
	count        int
	timeoutCount int
}

// WaitForEvent waits for event occurrences: it counts occurrences of
// cfg.TargetEvent; on reaching cfg.Count, returns CF_DISABLE. An optional
// timeout, expressed as a count of cfg.TimeoutEvent, triggers the failure
// path (ErrorFn, then CF_RESET or CF_TERMINATE depending on ResetFlag).
func WaitForEvent(eng *engine.Engine, name string, cfg WaitForEventConfig) error {
	if cfg.Timeout > 0 && cfg.TimeoutEvent == "" {
		cfg.TimeoutEvent = "CF_TIMER_EVENT"
	}
	st := &waitForEventState{cfg: cfg}
	return eng.AddElement(
		func(el *engine.Element, evt cfevents.Event) engine.ReturnCode {
			if evt.ID == st.cfg.TargetEvent {
				st.count++
				if st.count >= st.cfg.Count {
					return engine.CFDisable
				}
				return engine.CFHalt
			}
			if st.cfg.Timeout > 0 && evt.ID == st.cfg.TimeoutEvent {
				st.timeoutCount++
				if st.timeoutCount >= st.cfg.Timeout {
					if st.cfg.ErrorFn != nil {
						st.cfg.ErrorFn(el)
					}
					if st.cfg.ResetFlag {
						return engine.CFReset
					}
					return engine.CFTerminate
				}
			}
			return engine.CFHalt
		},
		func(el *engine.Element) {
			st.count = 0
			st.timeoutCount = 0
			el.Data = st
		},
		nil, st, name,
	)
}
