package engine

import "github.com/cuemby/chainflow/pkg/cfevents"

// ReturnCode is one of the five legal values a process callback may
// return. It is the only control-flow signal a process callback has: it
// decides whether the element stays enabled, whether the chain keeps
// iterating, and whether the chain itself is reset or terminated.
type ReturnCode string

const (
	CFHalt      ReturnCode = "CF_HALT"
	CFContinue  ReturnCode = "CF_CONTINUE"
	CFDisable   ReturnCode = "CF_DISABLE"
	CFReset     ReturnCode = "CF_RESET"
	CFTerminate ReturnCode = "CF_TERMINATE"
)

func (rc ReturnCode) valid() bool {
	switch rc {
	case CFHalt, CFContinue, CFDisable, CFReset, CFTerminate:
		return true
	default:
		return false
	}
}

// InitFunc runs once, the first time an enabled element is visited after
// being (re-)enabled.
type InitFunc func(el *Element)

// ProcessFunc runs on every event delivered to an enabled, initialized
// element. Its return code is the element's sole means of affecting
// control flow.
type ProcessFunc func(el *Element, evt cfevents.Event) ReturnCode

// TermFunc runs exactly once when an initialized element is disabled,
// either explicitly or as part of chain disable/reset/terminate.
type TermFunc func(el *Element)

// Element is one step of a Chain: a name, a mandatory process callback,
// two optional lifecycle callbacks, opaque user data, and the
// enable/initialized bookkeeping the engine mutates as it runs.
type Element struct {
	Name string

	Enable      bool
	Initialized bool

	InitFn    InitFunc
	ProcessFn ProcessFunc
	TermFn    TermFunc

	Data any

	// CurrentChain is set by the engine immediately before any callback
	// runs, so callbacks can look up sibling chains or chain-scoped data.
	CurrentChain string
}
