package operators

import (
	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
)

// activeCount reports how many of the named chains are currently active,
// skipping (treating as inactive) any name the engine no longer knows
// about.
func activeCount(eng *engine.Engine, chains []string) int {
	n := 0
	for _, c := range chains {
		if active, err := eng.IsChainActive(c); err == nil && active {
			n++
		}
	}
	return n
}

// JoinOR waits until every member of chains has gone inactive, then
// disables the group and disables itself. While any listed chain
// remains active, the element returns CF_HALT (it must keep being asked
// on the next CF_TIMER_EVENT, which requires it to stay enabled); once
// none of the listed chains are active, it disables them (idempotent)
// and returns CF_DISABLE. Only CF_TIMER_EVENT is acted on; every other
// event also halts, since the join has nothing useful to say about it.
func JoinOR(eng *engine.Engine, name string, chains []string) error {
	if err := eng.ValidateChainNames(chains...); err != nil {
		return err
	}
	return eng.AddElement(
		func(el *engine.Element, evt cfevents.Event) engine.ReturnCode {
			if evt.ID != "CF_TIMER_EVENT" {
				return engine.CFHalt
			}
			if activeCount(eng, chains) > 0 {
				return engine.CFHalt
			}
			for _, c := range chains {
				_ = eng.DisableChain(c)
			}
			return engine.CFDisable
		},
		nil, nil, nil, name,
	)
}

// JoinAND waits until every member of chains has gone inactive before
// letting the chain it lives in proceed. It returns CF_HALT
// until every listed chain is inactive, at which point it returns
// CF_CONTINUE exactly once that dispatch (passing through to later
// elements in the same chain) without disabling itself, since AND's
// contract is "pass through", not "one-shot".
func JoinAND(eng *engine.Engine, name string, chains []string) error {
	if err := eng.ValidateChainNames(chains...); err != nil {
		return err
	}
	return eng.AddElement(
		func(el *engine.Element, evt cfevents.Event) engine.ReturnCode {
			if evt.ID != "CF_TIMER_EVENT" {
				return engine.CFHalt
			}
			if activeCount(eng, chains) > 0 {
				return engine.CFHalt
			}
			return engine.CFContinue
		},
		nil, nil, nil, name,
	)
}

// JoinN is an N-of-M join: it counts how many of
// the listed chains are currently inactive; on reaching matchLimit, it
// disables the listed chains and returns CF_DISABLE, mirroring JoinOR's
// CF_HALT/CF_DISABLE shape with a configurable threshold instead of "all".
func JoinN(eng *engine.Engine, name string, chains []string, matchLimit int) error {
	if err := eng.ValidateChainNames(chains...); err != nil {
		return err
	}
	return eng.AddElement(
		func(el *engine.Element, evt cfevents.Event) engine.ReturnCode {
			if evt.ID != "CF_TIMER_EVENT" {
				return engine.CFHalt
			}
			inactive := len(chains) - activeCount(eng, chains)
			if inactive < matchLimit {
				return engine.CFHalt
			}
			for _, c := range chains {
				_ = eng.DisableChain(c)
			}
			return engine.CFDisable
		},
		nil, nil, nil, name,
	)
}
