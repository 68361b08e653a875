package operators

import (
	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
)

// Action is the user-supplied side effect a one-shot element runs once,
// at element entry (init time).
type Action func(el *engine.Element)

type oneShotState struct {
	action Action
	term   Action
}

// OneShotHalt registers a one-shot element: action runs once, at init,
// and the element then returns CF_DISABLE forever after (it never runs
// again until the owning chain is re-enabled). Used to inject a single
// side effect (logging, enabling other chains, sending events) at chain
// entry without blocking the chain's remaining elements on subsequent
// events.
func OneShotHalt(eng *engine.Engine, name string, action Action) error {
	st := &oneShotState{action: action}
	return eng.AddElement(
		func(el *engine.Element, _ cfevents.Event) engine.ReturnCode { return engine.CFDisable },
		func(el *engine.Element) {
			if st.action != nil {
				st.action(el)
			}
		},
		nil, st, name,
	)
}

// OneShotContinue is the "bidirectional one-shot": action runs once, at
// init, but the element passes every event through (CF_CONTINUE) forever
// after, so later elements in the same chain still see every event.
func OneShotContinue(eng *engine.Engine, name string, action Action) error {
	st := &oneShotState{action: action}
	return eng.AddElement(
		func(el *engine.Element, _ cfevents.Event) engine.ReturnCode { return engine.CFContinue },
		func(el *engine.Element) {
			if st.action != nil {
				st.action(el)
			}
		},
		nil, st, name,
	)
}
