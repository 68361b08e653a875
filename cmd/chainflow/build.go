package main

import (
	"fmt"
	"time"

	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/config"
	"github.com/cuemby/chainflow/pkg/engine"
	"github.com/cuemby/chainflow/pkg/log"
	"github.com/cuemby/chainflow/pkg/operators"
)

// buildEngine turns a parsed topology manifest into a finalized,
// un-started Engine: every additional event id is registered, every
// chain is opened, and every element is added by dispatching cfg's
// operator name to the matching pkg/operators constructor.
func buildEngine(cfg *config.Config, engCfg engine.Config) (*engine.Engine, error) {
	eng, err := engine.New(engCfg)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	eng.AddReservedChainName(cfg.ReservedChainNames...)

	for _, ev := range cfg.Events {
		if err := eng.AddEventID(ev.ID, ev.Description); err != nil {
			return nil, fmt.Errorf("build engine: register event %q: %w", ev.ID, err)
		}
	}

	for _, chainDef := range cfg.Chains {
		if err := eng.DefineChain(chainDef.Name, chainDef.Auto); err != nil {
			return nil, fmt.Errorf("build engine: define chain %q: %w", chainDef.Name, err)
		}
		for _, el := range chainDef.Elements {
			if err := addElement(eng, el); err != nil {
				return nil, fmt.Errorf("build engine: chain %q element %q: %w", chainDef.Name, el.Name, err)
			}
		}
		if err := eng.EndChain(); err != nil {
			return nil, fmt.Errorf("build engine: close chain %q: %w", chainDef.Name, err)
		}
	}

	if err := eng.Finalize(); err != nil {
		return nil, fmt.Errorf("build engine: finalize: %w", err)
	}
	return eng, nil
}

// addElement dispatches one manifest element to its named operator
// constructor. Operators whose configuration includes Go callbacks
// (predicates, failure functions) are only reachable by name when those
// fields are optional; this keeps the manifest format declarative.
func addElement(eng *engine.Engine, el config.ElementDef) error {
	logTrace := func(el *engine.Element) {
		chainLogger := log.WithChain(el.CurrentChain)
		chainLogger.Debug().Str("element", el.Name).Msg("element entered")
	}

	switch el.Operator {
	case "LogMessage":
		return operators.LogMessage(eng, el.Name, el.GetString("message", ""))

	case "SendSystemEventOp":
		return operators.SendSystemEventOp(eng, el.Name, cfevents.New(el.GetString("eventId", ""), nil))

	case "SendNamedEventOp":
		return operators.SendNamedEventOp(eng, el.Name, el.GetString("targetChain", ""), cfevents.New(el.GetString("eventId", ""), nil))

	case "EnableChains":
		return operators.EnableChains(eng, el.Name, el.GetStringSlice("chains"))

	case "DisableChains":
		return operators.DisableChains(eng, el.Name, el.GetStringSlice("chains"))

	case "EnableDisableChains":
		return operators.EnableDisableChains(eng, el.Name, el.GetStringSlice("chains"))

	case "WaitTime":
		return operators.WaitTime(eng, el.Name, el.GetDuration("delay", time.Second))

	case "WaitForEvent":
		return operators.WaitForEvent(eng, el.Name, operators.WaitForEventConfig{
			TargetEvent:  el.GetString("targetEvent", ""),
			Count:        el.GetInt("count", 1),
			TimeoutEvent: el.GetString("timeoutEvent", ""),
			Timeout:      el.GetInt("timeout", 0),
			ResetFlag:    el.GetInt("resetFlag", 0) != 0,
		})

	case "Verify":
		return operators.Verify(eng, el.Name, operators.VerifyConfig{
			ResetFlag:    el.GetInt("resetFlag", 0) != 0,
			TimeoutEvent: el.GetString("timeoutEvent", ""),
			Timeout:      el.GetInt("timeout", 0),
		})

	case "Watchdog":
		return operators.Watchdog(eng, el.Name, operators.WatchdogConfig{
			PatEvent:    el.GetString("patEvent", ""),
			StartEvent:  el.GetString("startEvent", ""),
			CancelEvent: el.GetString("cancelEvent", ""),
			TimeEvent:   el.GetString("timeEvent", "CF_SECOND_EVENT"),
			PatTimeOut:  el.GetInt("patTimeout", 1),
			ResetFlag:   el.GetInt("resetFlag", 0) != 0,
		})

	case "JoinOR":
		return operators.JoinOR(eng, el.Name, el.GetStringSlice("chains"))

	case "JoinAND":
		return operators.JoinAND(eng, el.Name, el.GetStringSlice("chains"))

	case "JoinN":
		return operators.JoinN(eng, el.Name, el.GetStringSlice("chains"), el.GetInt("matchLimit", 1))

	case "ExceptionHandler":
		return operators.ExceptionHandler(eng, el.Name, operators.ExceptionHandlerConfig{
			WatchedEvents:   el.GetStringSlice("watchedEvents"),
			Count:           el.GetInt("count", 1),
			ChainsToControl: el.GetStringSlice("chainsToControl"),
			ResetFlag:       el.GetInt("resetFlag", 0) != 0,
		})

	case "EventFilter":
		return operators.EventFilter(eng, el.Name, el.GetStringSlice("watchedEvents"))

	case "OneShotHalt":
		return operators.OneShotHalt(eng, el.Name, logTrace)

	case "OneShotContinue":
		return operators.OneShotContinue(eng, el.Name, logTrace)

	default:
		return fmt.Errorf("unknown operator %q (see list-operators for the supported set)", el.Operator)
	}
}
