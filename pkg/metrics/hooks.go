package metrics

import (
	"time"

	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
)

// Hooks returns the three engine.Config callbacks that feed this
// package's counters and histograms from live dispatch activity. Wire
// them in at construction time:
//
//	elementHook, dispatchHook, dropHook := metrics.Hooks()
//	eng, err := engine.New(engine.Config{
//	    Ticker:         engine.RealTicker(100 * time.Millisecond),
//	    OnElementRun:   elementHook,
//	    OnDispatch:     dispatchHook,
//	    OnEventDropped: dropHook,
//	})
func Hooks() (engine.ElementHook, engine.DispatchHook, engine.DropHook) {
	elementHook := func(chain, element string, _ cfevents.Event, rc engine.ReturnCode, dur time.Duration) {
		ElementReturnCodesTotal.WithLabelValues(chain, element, string(rc)).Inc()
		ElementProcessDuration.WithLabelValues(chain, element).Observe(dur.Seconds())
	}

	dispatchHook := func(_ cfevents.Event, dur time.Duration) {
		DispatchCyclesTotal.Inc()
		DispatchCycleDuration.Observe(dur.Seconds())
	}

	dropHook := func(queue string) {
		QueueEventsDroppedTotal.WithLabelValues(queue).Inc()
	}

	return elementHook, dispatchHook, dropHook
}
