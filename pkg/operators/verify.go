package operators

import (
	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
)

// Predicate inspects a delivered event and reports whether it satisfies
// the condition the Verify operator was installed to check.
type Predicate func(el *engine.Element, evt cfevents.Event) bool

// VerifyConfig configures Verify.
type VerifyConfig struct {
	Predicate Predicate
	FailureFn Action
	ResetFlag bool

	// TimeoutEvent/Timeout, if set, count occurrences of TimeoutEvent and
	// trigger the same failure path as a failed predicate once reached.
	TimeoutEvent string
	Timeout      int
}

type verifyState struct {
	cfg          VerifyConfig
	timeoutCount int
}

// Verify invokes a predicate on every delivered event. On predicate true, CF_CONTINUE (pass
// through); on predicate false, the failure path (invoke FailureFn if
// set, then CF_RESET or CF_TERMINATE per ResetFlag) runs. An optional
// timeout, expressed as a count of TimeoutEvent, takes the same failure
// path.
func Verify(eng *engine.Engine, name string, cfg VerifyConfig) error {
	if cfg.Timeout > 0 && cfg.TimeoutEvent == "" {
		cfg.TimeoutEvent = "CF_TIMER_EVENT"
	}
	st := &verifyState{cfg: cfg}
	return eng.AddElement(
		func(el *engine.Element, evt cfevents.Event) engine.ReturnCode {
			if st.cfg.Timeout > 0 && evt.ID == st.cfg.TimeoutEvent {
				st.timeoutCount++
				if st.timeoutCount >= st.cfg.Timeout {
					return verifyFail(el, st)
				}
			}
			if st.cfg.Predicate == nil || st.cfg.Predicate(el, evt) {
				return engine.CFContinue
			}
			return verifyFail(el, st)
		},
		func(el *engine.Element) {
			st.timeoutCount = 0
			el.Data = st
		},
		nil, st, name,
	)
}

func verifyFail(el *engine.Element, st *verifyState) engine.ReturnCode {
	if st.cfg.FailureFn != nil {
		st.cfg.FailureFn(el)
	}
	if st.cfg.ResetFlag {
		return engine.CFReset
	}
	return engine.CFTerminate
}
