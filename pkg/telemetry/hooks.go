package telemetry

import (
	"time"

	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
)

// Hooks returns the three engine.Config callbacks that publish dispatch
// activity to b. Wire them in at construction time:
//
//	elementHook, dispatchHook, dropHook := telemetry.Hooks(broker)
//	eng, err := engine.New(engine.Config{
//	    Ticker:         engine.RealTicker(100 * time.Millisecond),
//	    OnElementRun:   elementHook,
//	    OnDispatch:     dispatchHook,
//	    OnEventDropped: dropHook,
//	})
func Hooks(b *Broker) (engine.ElementHook, engine.DispatchHook, engine.DropHook) {
	elementHook := func(chain, element string, evt cfevents.Event, rc engine.ReturnCode, dur time.Duration) {
		b.Publish(&Record{
			Kind:       KindElementRun,
			Chain:      chain,
			Element:    element,
			EventID:    evt.ID,
			ReturnCode: string(rc),
			Duration:   dur,
		})
	}

	dispatchHook := func(evt cfevents.Event, dur time.Duration) {
		b.Publish(&Record{
			Kind:     KindDispatch,
			EventID:  evt.ID,
			Duration: dur,
		})
	}

	dropHook := func(queue string) {
		b.Publish(&Record{
			Kind:  KindDropped,
			Queue: queue,
		})
	}

	return elementHook, dispatchHook, dropHook
}
