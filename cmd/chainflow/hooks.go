package main

import (
	"time"

	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
)

// fanOutElementHooks combines multiple engine.ElementHook callbacks into
// one, since engine.Config only accepts a single hook of each kind.
func fanOutElementHooks(hooks ...engine.ElementHook) engine.ElementHook {
	return func(chain, element string, evt cfevents.Event, rc engine.ReturnCode, dur time.Duration) {
		for _, h := range hooks {
			if h != nil {
				h(chain, element, evt, rc, dur)
			}
		}
	}
}

func fanOutDispatchHooks(hooks ...engine.DispatchHook) engine.DispatchHook {
	return func(evt cfevents.Event, dur time.Duration) {
		for _, h := range hooks {
			if h != nil {
				h(evt, dur)
			}
		}
	}
}

func fanOutDropHooks(hooks ...engine.DropHook) engine.DropHook {
	return func(queue string) {
		for _, h := range hooks {
			if h != nil {
				h(queue)
			}
		}
	}
}
