package operators

import (
	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
	"github.com/cuemby/chainflow/pkg/log"
)

// EventFilter is a pass-through element that logs whenever a watched
// event is delivered to its chain, without affecting chain control flow.
// Useful for tracing which events a chain actually receives during
// development.
func EventFilter(eng *engine.Engine, name string, watchedEvents []string) error {
	return eng.AddElement(
		func(el *engine.Element, evt cfevents.Event) engine.ReturnCode {
			if watches(watchedEvents, evt.ID) {
				chainLogger := log.WithChain(el.CurrentChain)
				chainLogger.Debug().Str("event_id", evt.ID).Msg("event filter match")
			}
			return engine.CFContinue
		},
		nil, nil, nil, name,
	)
}
