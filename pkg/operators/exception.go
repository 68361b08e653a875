package operators

import (
	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
	"github.com/cuemby/chainflow/pkg/metrics"
)

// ExceptionPredicate, when set on an ExceptionHandlerConfig, is evaluated
// on every delivered event; a false result is treated as an immediate
// trip regardless of the watched-event count.
type ExceptionPredicate func(evt cfevents.Event) bool

// ExceptionHandlerConfig configures ExceptionHandler.
type ExceptionHandlerConfig struct {
	WatchedEvents []string // event ids counted toward Count
	Count         int

	ChainsToControl []string
	FailureFn       Action
	ResetFlag       bool

	Predicate ExceptionPredicate
}

type exceptionState struct {
	cfg   ExceptionHandlerConfig
	count int
}

func watches(ids []string, id string) bool {
	for _, w := range ids {
		if w == id {
			return true
		}
	}
	return false
}

// ExceptionHandler watches for error-like events across a group of
// chains: it counts
// occurrences of any id in WatchedEvents (or trips immediately if
// Predicate is set and returns false); on reaching Count, it disables
// ChainsToControl, invokes FailureFn, optionally re-enables them if
// ResetFlag, and finally disables itself (CF_DISABLE). Until tripped it
// passes every event through (CF_CONTINUE), since it is a passive
// monitor, not a blocking wait.
func ExceptionHandler(eng *engine.Engine, name string, cfg ExceptionHandlerConfig) error {
	if err := eng.ValidateChainNames(cfg.ChainsToControl...); err != nil {
		return err
	}
	st := &exceptionState{cfg: cfg}
	return eng.AddElement(
		func(el *engine.Element, evt cfevents.Event) engine.ReturnCode {
			tripped := false
			if st.cfg.Predicate != nil && !st.cfg.Predicate(evt) {
				tripped = true
			} else if watches(st.cfg.WatchedEvents, evt.ID) {
				st.count++
				if st.count >= st.cfg.Count {
					tripped = true
				}
			}
			if !tripped {
				return engine.CFContinue
			}
			metrics.ExceptionTripsTotal.WithLabelValues(el.CurrentChain, el.Name).Inc()
			for _, c := range st.cfg.ChainsToControl {
				_ = eng.DisableChain(c)
			}
			if st.cfg.FailureFn != nil {
				st.cfg.FailureFn(el)
			}
			if st.cfg.ResetFlag {
				for _, c := range st.cfg.ChainsToControl {
					_ = eng.EnableChain(c)
				}
			}
			return engine.CFDisable
		},
		func(el *engine.Element) {
			st.count = 0
			el.Data = st
		},
		nil, st, name,
	)
}
