package operators

import (
	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
	"github.com/cuemby/chainflow/pkg/metrics"
)

type watchdogState int

const (
	watchdogOn watchdogState = iota
	watchdogOff
)

// WatchdogConfig configures Watchdog.
type WatchdogConfig struct {
	PatEvent    string // resets the watchdog's timeout counter
	StartEvent  string // arms the watchdog (OFF -> ON)
	CancelEvent string // disarms the watchdog (ON -> OFF)
	TimeEvent   string // typically CF_SECOND_EVENT; advances the timeout counter while ON

	PatTimeOut int // number of TimeEvent occurrences without a pat before tripping
	ResetFlag  bool
	FailureFn  Action
}

type watchdogElemState struct {
	cfg      WatchdogConfig
	state    watchdogState
	patCount int
}

// Watchdog implements a two-state (ON/OFF) finite state machine:
// while ON, a pat resets the timeout counter, a cancel disarms it,
// and TimeEvent advances the counter toward PatTimeOut (tripping the
// failure path on reaching it); while OFF, only StartEvent re-arms it.
func Watchdog(eng *engine.Engine, name string, cfg WatchdogConfig) error {
	st := &watchdogElemState{cfg: cfg, state: watchdogOn}
	return eng.AddElement(
		func(el *engine.Element, evt cfevents.Event) engine.ReturnCode {
			switch st.state {
			case watchdogOn:
				switch evt.ID {
				case st.cfg.PatEvent:
					st.patCount = 0
					metrics.WatchdogPatsTotal.WithLabelValues(el.CurrentChain, el.Name).Inc()
					return engine.CFHalt
				case st.cfg.CancelEvent:
					st.state = watchdogOff
					return engine.CFHalt
				case st.cfg.TimeEvent:
					st.patCount++
					if st.patCount >= st.cfg.PatTimeOut {
						metrics.WatchdogTimeoutsTotal.WithLabelValues(el.CurrentChain, el.Name).Inc()
						if st.cfg.FailureFn != nil {
							st.cfg.FailureFn(el)
						}
						if st.cfg.ResetFlag {
							return engine.CFReset
						}
						return engine.CFTerminate
					}
					return engine.CFContinue
				default:
					return engine.CFContinue
				}
			default: // watchdogOff
				if evt.ID == st.cfg.StartEvent {
					st.state = watchdogOn
					st.patCount = 0
					return engine.CFHalt
				}
				return engine.CFContinue
			}
		},
		func(el *engine.Element) {
			st.state = watchdogOn
			st.patCount = 0
			el.Data = st
		},
		nil, st, name,
	)
}
