package operators

import (
	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
	"github.com/cuemby/chainflow/pkg/log"
)

// LogMessage is a one-shot-halt specialization whose init invokes the
// package logger at Info level.
func LogMessage(eng *engine.Engine, name, message string) error {
	return OneShotHalt(eng, name, func(el *engine.Element) {
		chainLogger := log.WithChain(el.CurrentChain)
		chainLogger.Info().Str("element", el.Name).Msg(message)
	})
}

// SendSystemEventOp is a one-shot-halt specialization whose init sends a
// system/broadcast event.
func SendSystemEventOp(eng *engine.Engine, name string, evt cfevents.Event) error {
	return OneShotHalt(eng, name, func(el *engine.Element) {
		_, _ = eng.SendSystemEvent(evt)
	})
}

// SendNamedEventOp is a one-shot-halt specialization whose init sends a
// targeted event to a specific chain's per-chain queue. It forwards the
// constructed Event itself to SendNamedQueueEvent: the event, never raw
// opaque data, is what crosses the chain boundary.
func SendNamedEventOp(eng *engine.Engine, name, targetChain string, evt cfevents.Event) error {
	if err := eng.ValidateChainNames(targetChain); err != nil {
		return err
	}
	return OneShotHalt(eng, name, func(el *engine.Element) {
		_, _ = eng.SendNamedQueueEvent(targetChain, evt)
	})
}
