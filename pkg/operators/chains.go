package operators

import (
	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
)

// EnableChains is a one-shot-halt specialization: at init, every listed
// chain is enabled.
func EnableChains(eng *engine.Engine, name string, chains []string) error {
	if err := eng.ValidateChainNames(chains...); err != nil {
		return err
	}
	return OneShotHalt(eng, name, func(el *engine.Element) {
		for _, c := range chains {
			_ = eng.EnableChain(c)
		}
	})
}

// DisableChains is a one-shot-halt specialization: at init, every listed
// chain is disabled (running their terminators).
func DisableChains(eng *engine.Engine, name string, chains []string) error {
	if err := eng.ValidateChainNames(chains...); err != nil {
		return err
	}
	return OneShotHalt(eng, name, func(el *engine.Element) {
		for _, c := range chains {
			_ = eng.DisableChain(c)
		}
	})
}

// EnableDisableChains brackets the execution of a list of auxiliary
// chains with the lifetime of the current element: chains are enabled
// when this element first initializes and disabled when this element's
// owning chain is itself disabled, reset, or terminated (its termination
// function runs exactly once per enable/disable cycle). The element
// passes every event through unchanged.
func EnableDisableChains(eng *engine.Engine, name string, chains []string) error {
	if err := eng.ValidateChainNames(chains...); err != nil {
		return err
	}
	return eng.AddElement(
		func(el *engine.Element, _ cfevents.Event) engine.ReturnCode { return engine.CFContinue },
		func(el *engine.Element) {
			for _, c := range chains {
				_ = eng.EnableChain(c)
			}
		},
		func(el *engine.Element) {
			for _, c := range chains {
				_ = eng.DisableChain(c)
			}
		},
		nil, name,
	)
}
