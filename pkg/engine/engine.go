// Package engine implements the Chain Flow Engine core: chains of
// elements driven by a cooperative, single-threaded event dispatch loop,
// with a ticker-driven dispatch cycle and a mutex-guarded state-transition
// style throughout.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/log"
)

// Engine owns the event registry, the dual-queue system, and every
// defined chain. It is not safe for concurrent use from more than one
// goroutine beyond the builder/runtime surface documented here: the main
// loop itself is strictly single-threaded.
type Engine struct {
	mu sync.Mutex

	registry *cfevents.Registry
	queues   *cfevents.DualQueueSystem

	reservedChainNames []string
	listOfChains       []string
	chainDict          map[string]*Chain
	currentChain       string // "" means no chain open

	finalized     bool
	systemActive  bool
	dispatchCount uint64

	clock  Clock
	ticker Ticker

	refSecond, refMinute, refHour, refDay int
	lastTimestamp                         time.Time

	systemQueueCapacity int
	chainQueueCapacity  int

	onElementRun   ElementHook
	onDispatch     DispatchHook
	onEventDropped DropHook

	logger zerolog.Logger
}

// ElementHook is an optional instrumentation callback invoked after every
// element process invocation, used to wire pkg/metrics counters/histograms
// without the engine importing metrics directly.
type ElementHook func(chain, element string, evt cfevents.Event, rc ReturnCode, dur time.Duration)

// DispatchHook is an optional instrumentation callback invoked after each
// system-event dispatch cycle completes, with the time the cycle took.
type DispatchHook func(evt cfevents.Event, dur time.Duration)

// DropHook is an optional instrumentation callback invoked whenever an
// enqueue is rejected because a queue was at capacity.
type DropHook func(queue string)

// Config bundles the Engine's collaborators.
type Config struct {
	Clock  Clock  // defaults to SystemClock() if nil
	Ticker Ticker // required: the cooperative yield collaborator

	// SystemQueueCapacity/ChainQueueCapacity bound the dual-queue system
	// built at Finalize. <= 0 means unbounded (the default).
	SystemQueueCapacity int
	ChainQueueCapacity  int

	OnElementRun   ElementHook
	OnDispatch     DispatchHook
	OnEventDropped DropHook
}

// New constructs an unfinalized, empty Engine. cfg.Ticker must be
// non-nil; it is the cooperative yield collaborator invoked once per
// main-loop iteration.
func New(cfg Config) (*Engine, error) {
	if cfg.Ticker == nil {
		return nil, fmt.Errorf("engine: Ticker collaborator is required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	e := &Engine{
		clock:               clock,
		ticker:              cfg.Ticker,
		systemQueueCapacity: cfg.SystemQueueCapacity,
		chainQueueCapacity:  cfg.ChainQueueCapacity,
		onElementRun:        cfg.OnElementRun,
		onDispatch:          cfg.OnDispatch,
		onEventDropped:      cfg.OnEventDropped,
		logger:              log.WithComponent("engine"),
	}
	e.resetLocked()
	return e, nil
}

// Now returns the current time as seen by the engine's injected Clock
// collaborator, for use by operators that need a wall-clock reference
// (e.g. timed waits) consistent with what the engine itself uses.
func (e *Engine) Now() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.Now()
}

// ResetCF tears the engine back to an empty, unfinalized state so the
// same Engine value can be reused across scenario tests.
func (e *Engine) ResetCF() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

func (e *Engine) resetLocked() {
	e.registry = cfevents.NewRegistry()
	e.listOfChains = nil
	e.chainDict = make(map[string]*Chain)
	e.currentChain = ""
	e.finalized = false
	e.systemActive = true
	e.reservedChainNames = nil
	e.queues = nil
	e.dispatchCount = 0
}

// AddEventID registers an additional event identifier with a human
// description, beyond the built-ins pre-registered by the Registry.
func (e *Engine) AddEventID(id, description string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Add(id, description)
}

// AddReservedChainName reserves one or more chain names ahead of
// DefineChain being called for them.
func (e *Engine) AddReservedChainName(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, name := range names {
		if !contains(e.reservedChainNames, name) {
			e.reservedChainNames = append(e.reservedChainNames, name)
		}
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// DefineChain begins defining a new chain. At most one chain may be open
// at a time; call EndChain before defining another.
func (e *Engine) DefineChain(name string, autoFlag bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finalized {
		return fmt.Errorf("%w: cannot define chain %q", ErrAlreadyFinalized, name)
	}
	if name == "" {
		return fmt.Errorf("engine: chain name cannot be empty")
	}
	if e.currentChain != "" {
		return fmt.Errorf("%w: chain %q is still being defined", ErrChainOpen, e.currentChain)
	}
	if _, exists := e.chainDict[name]; exists {
		return fmt.Errorf("%w: %q", ErrChainExists, name)
	}
	if !contains(e.reservedChainNames, name) {
		e.reservedChainNames = append(e.reservedChainNames, name)
	}
	e.chainDict[name] = &Chain{Name: name, AutoFlag: autoFlag}
	e.currentChain = name
	return nil
}

// AddElement appends an element to the chain currently being defined.
// name is auto-generated ("element_N") when empty.
func (e *Engine) AddElement(process ProcessFunc, init InitFunc, term TermFunc, data any, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finalized {
		return fmt.Errorf("%w: cannot add element %q", ErrAlreadyFinalized, name)
	}
	if e.currentChain == "" {
		return ErrNoChainOpen
	}
	if process == nil {
		return ErrNilProcessFunc
	}
	chain := e.chainDict[e.currentChain]
	if name == "" {
		name = fmt.Sprintf("element_%d", len(chain.Elements)+1)
	}
	if chain.elementByName(name) != nil {
		return fmt.Errorf("%w: %q in chain %q", ErrDuplicateElement, name, e.currentChain)
	}
	chain.Elements = append(chain.Elements, &Element{
		Name:      name,
		Enable:    true,
		ProcessFn: process,
		InitFn:    init,
		TermFn:    term,
		Data:      data,
	})
	return nil
}

// EndChain closes out the chain currently being defined.
func (e *Engine) EndChain() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finalized {
		return ErrAlreadyFinalized
	}
	if e.currentChain == "" {
		return ErrNoChainOpen
	}
	e.listOfChains = append(e.listOfChains, e.currentChain)
	e.currentChain = ""
	return nil
}

// Finalize freezes the chain configuration and builds the dual-queue
// system sized to the finalized chain list. No chain may be open.
func (e *Engine) Finalize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.currentChain != "" {
		return fmt.Errorf("%w: chain %q is still being defined", ErrChainOpen, e.currentChain)
	}
	if len(e.listOfChains) == 0 {
		return fmt.Errorf("engine: cannot finalize with no chains defined")
	}
	queues, err := cfevents.NewDualQueueSystem(e.listOfChains, e.systemQueueCapacity, e.chainQueueCapacity)
	if err != nil {
		return err
	}
	e.queues = queues
	e.finalized = true
	return nil
}

// SetChainData stores opaque, chain-scoped data on a defined chain.
func (e *Engine) SetChainData(chain string, data any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.chainDict[chain]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChain, chain)
	}
	c.SetData(data)
	return nil
}

// ChainData retrieves opaque, chain-scoped data from a defined chain.
func (e *Engine) ChainData(chain string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.chainDict[chain]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChain, chain)
	}
	return c.Data(), nil
}

// ValidateChainNames checks that every name is either a defined chain or
// a reserved chain name, so operators referring to other chains can
// reject typos at build time instead of silently no-opping at dispatch
// time.
func (e *Engine) ValidateChainNames(names ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, name := range names {
		if _, ok := e.chainDict[name]; ok {
			continue
		}
		if !contains(e.reservedChainNames, name) {
			return fmt.Errorf("%w: %q", ErrUnknownChain, name)
		}
	}
	return nil
}

// IsChainActive reports whether chain is currently active.
func (e *Engine) IsChainActive(chain string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.chainDict[chain]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownChain, chain)
	}
	return c.Active, nil
}

// ChainInfo summarizes one chain's runtime state.
type ChainInfo struct {
	Name          string
	Active        bool
	ElementCount  int
	AutoFlag      bool
	QueueBacklog  int
}

// ChainInfo returns a snapshot of a single chain's state.
func (e *Engine) ChainInfo(chain string) (ChainInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.chainDict[chain]
	if !ok {
		return ChainInfo{}, fmt.Errorf("%w: %q", ErrUnknownChain, chain)
	}
	backlog := 0
	if e.queues != nil {
		if stats, err := e.queues.ChainQueueStats(chain); err == nil {
			backlog = stats.CurrentSize
		}
	}
	return ChainInfo{
		Name:         c.Name,
		Active:       c.Active,
		ElementCount: len(c.Elements),
		AutoFlag:     c.AutoFlag,
		QueueBacklog: backlog,
	}, nil
}

// SystemInfo summarizes the whole engine.
type SystemInfo struct {
	Chains           []string
	ChainCount       int
	Finalized        bool
	SystemActive     bool
	DispatchCount    uint64
	SystemQueueDepth int
}

// SystemInfo returns a snapshot of overall engine state.
func (e *Engine) SystemInfo() SystemInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	depth := 0
	if e.queues != nil {
		depth = e.queues.SystemQueueStats().CurrentSize
	}
	return SystemInfo{
		Chains:           append([]string(nil), e.listOfChains...),
		ChainCount:       len(e.listOfChains),
		Finalized:        e.finalized,
		SystemActive:     e.systemActive,
		DispatchCount:    e.dispatchCount,
		SystemQueueDepth: depth,
	}
}

// EnableChain activates chain: flushes its per-chain queue and resets
// every element to enabled/uninitialized.
func (e *Engine) EnableChain(chain string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.finalized {
		return ErrNotFinalized
	}
	return e.enableChainLocked(chain)
}

func (e *Engine) enableChainLocked(chain string) error {
	c, ok := e.chainDict[chain]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChain, chain)
	}
	c.Active = true
	if _, err := e.queues.ClearChainEvents(chain); err != nil {
		return err
	}
	for _, el := range c.Elements {
		el.Enable = true
		el.Initialized = false
	}
	return nil
}

// DisableChain deactivates chain. If already inactive this is a no-op.
// Otherwise elements are visited in reverse order; any element that is
// both enabled and initialized has its termination callback invoked
// exactly once, then every element is disabled.
func (e *Engine) DisableChain(chain string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.finalized {
		return ErrNotFinalized
	}
	return e.disableChainLocked(chain)
}

func (e *Engine) disableChainLocked(chain string) error {
	c, ok := e.chainDict[chain]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChain, chain)
	}
	if !c.Active {
		return nil
	}
	c.Active = false
	if _, err := e.queues.ClearChainEvents(chain); err != nil {
		return err
	}
	for i := len(c.Elements) - 1; i >= 0; i-- {
		el := c.Elements[i]
		if el.Enable && el.Initialized {
			el.CurrentChain = chain
			if el.TermFn != nil {
				term := el.TermFn
				e.mu.Unlock()
				term(el)
				e.mu.Lock()
			}
			el.Initialized = false
		}
		el.Enable = false
	}
	return nil
}

func (e *Engine) disableAllChainsLocked() {
	for _, name := range e.listOfChains {
		_ = e.disableChainLocked(name)
	}
}

// SendSystemEvent pushes evt onto the system/broadcast queue. evt.ID must
// be a registered event identifier.
func (e *Engine) SendSystemEvent(evt cfevents.Event) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.registry.Has(evt.ID) {
		return false, fmt.Errorf("%w: %q", ErrUnregisteredEvent, evt.ID)
	}
	ok := e.queues.AddSystemEvent(evt)
	if !ok && e.onEventDropped != nil {
		e.onEventDropped("normal_events")
	}
	return ok, nil
}

// SendNamedQueueEvent pushes evt onto chain's targeted queue. chain must
// exist and be active, and evt.ID must be registered.
func (e *Engine) SendNamedQueueEvent(chain string, evt cfevents.Event) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.registry.Has(evt.ID) {
		return false, fmt.Errorf("%w: %q", ErrUnregisteredEvent, evt.ID)
	}
	c, ok := e.chainDict[chain]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownChain, chain)
	}
	if !c.Active {
		return false, fmt.Errorf("%w: %q", ErrChainNotActive, chain)
	}
	ok, err := e.queues.AddChainEvent(chain, evt)
	if err == nil && !ok && e.onEventDropped != nil {
		e.onEventDropped(chain)
	}
	return ok, err
}

// ResetSystem sends CF_SYSTEM_RESET, a plain broadcast event chains can
// react to. The engine-scoped self-heal signal is CF_RESET_SYSTEM, which
// dispatch handles itself.
func (e *Engine) ResetSystem() error {
	_, err := e.SendSystemEvent(cfevents.New("CF_SYSTEM_RESET", nil))
	return err
}

// StopSystem sends CF_SYSTEM_STOP, a plain broadcast event chains can
// react to.
func (e *Engine) StopSystem() error {
	_, err := e.SendSystemEvent(cfevents.New("CF_SYSTEM_STOP", nil))
	return err
}

// TerminateSystem sends CF_TERMINATE_SYSTEM: dispatch disables every
// chain (running terminators) and Start returns.
func (e *Engine) TerminateSystem() error {
	_, err := e.SendSystemEvent(cfevents.New("CF_TERMINATE_SYSTEM", nil))
	return err
}

// initializeChainsLocked enables every auto-start chain and disables the
// rest, in definition order.
func (e *Engine) initializeChainsLocked() error {
	e.queues.ClearSystemEvents()
	for _, name := range e.listOfChains {
		c := e.chainDict[name]
		var err error
		if c.AutoFlag {
			err = e.enableChainLocked(name)
		} else {
			err = e.disableChainLocked(name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Start runs the engine: the outer initialize/inner-tick loop, blocking
// until the system goes inactive: after a CF_TERMINATE_SYSTEM dispatch, or
// after a dispatch in which no element ran (for example once every chain
// has terminated).
func (e *Engine) Start() error {
	e.mu.Lock()
	if !e.finalized {
		e.mu.Unlock()
		return ErrNotFinalized
	}
	now := e.clock.Now()
	e.refSecond = now.Second()
	e.refMinute = now.Minute()
	e.refHour = now.Hour()
	e.refDay = now.YearDay()
	e.mu.Unlock()

	e.logger.Info().Int("chains", len(e.listOfChains)).Msg("engine starting")

	for {
		e.mu.Lock()
		if err := e.initializeChainsLocked(); err != nil {
			e.mu.Unlock()
			return err
		}
		e.systemActive = true
		e.mu.Unlock()

		for {
			e.mu.Lock()
			active := e.systemActive
			e.mu.Unlock()
			if !active {
				return nil
			}

			e.ticker()

			e.mu.Lock()
			prevStamp := e.lastTimestamp
			now := e.clock.Now()
			e.lastTimestamp = now
			delta := time.Duration(0)
			if !prevStamp.IsZero() {
				delta = now.Sub(prevStamp)
			}

			e.queues.AddSystemEvent(cfevents.New("CF_TIMER_EVENT", TimerPayload{
				DeltaTime: delta,
				TimeStamp: now,
			}))

			if now.Second() != e.refSecond {
				e.refSecond = now.Second()
				e.queues.AddSystemEvent(cfevents.New("CF_SECOND_EVENT", CalendarPayload{Value: now.Second(), TimeStamp: now}))
			}
			if now.Minute() != e.refMinute {
				e.refMinute = now.Minute()
				e.queues.AddSystemEvent(cfevents.New("CF_MINUTE_EVENT", CalendarPayload{Value: now.Minute(), TimeStamp: now}))
			}
			if now.Hour() != e.refHour {
				e.refHour = now.Hour()
				e.queues.AddSystemEvent(cfevents.New("CF_HOUR_EVENT", CalendarPayload{Value: now.Hour(), TimeStamp: now}))
			}
			if now.YearDay() != e.refDay {
				e.refDay = now.YearDay()
				e.queues.AddSystemEvent(cfevents.New("CF_DAY_EVENT", CalendarPayload{Value: now.YearDay(), TimeStamp: now}))
			}
			e.mu.Unlock()

			if err := e.executeSystemEventLoop(); err != nil {
				return err
			}
		}
	}
}

// TimerPayload is the payload carried by every CF_TIMER_EVENT.
type TimerPayload struct {
	DeltaTime time.Duration
	TimeStamp time.Time
}

// CalendarPayload is the payload carried by CF_SECOND_EVENT /
// CF_MINUTE_EVENT / CF_HOUR_EVENT / CF_DAY_EVENT.
type CalendarPayload struct {
	Value     int
	TimeStamp time.Time
}

// StepOnce runs one pass of the Start loop's inner drain over whatever
// is currently queued on the system queue, dispatching each event to
// every active chain, without synthesizing any timer or calendar events
// and without calling the Ticker collaborator. Like that drain, it stops
// early, and dispatches nothing while the system is inactive. It is
// exported so callers (and tests) can drive deterministic dispatch
// cycles directly: SendSystemEvent/SendNamedQueueEvent to queue work,
// then StepOnce to run it synchronously.
func (e *Engine) StepOnce() error {
	e.mu.Lock()
	if !e.finalized {
		e.mu.Unlock()
		return ErrNotFinalized
	}
	e.mu.Unlock()
	return e.executeSystemEventLoop()
}

// executeSystemEventLoop dispatches system-queue events in turn until the
// queue is empty. It also stops, leaving any remaining events queued, as
// soon as the system is inactive: after a CF_TERMINATE_SYSTEM dispatch or
// after a dispatch in which no element ran.
func (e *Engine) executeSystemEventLoop() error {
	for {
		e.mu.Lock()
		stillActive := e.systemActive
		e.mu.Unlock()
		if !stillActive {
			return nil
		}
		if err := e.executeSystemEvent(); err != nil {
			return err
		}
		e.mu.Lock()
		empty := !e.queues.HasSystemEvents()
		e.mu.Unlock()
		if empty {
			return nil
		}
	}
}

// executeSystemEvent pulls one event off the system queue and dispatches
// it to every active chain in definition order, handling the two
// system-level special events first.
func (e *Engine) executeSystemEvent() error {
	e.mu.Lock()
	evt, ok := e.queues.NextSystemEvent()
	if !ok {
		e.mu.Unlock()
		return nil
	}
	e.dispatchCount++
	hook := e.onDispatch
	e.mu.Unlock()

	start := time.Now()
	err := e.dispatchSystemEvent(evt)
	if hook != nil {
		hook(evt, time.Since(start))
	}
	return err
}

func (e *Engine) dispatchSystemEvent(evt cfevents.Event) error {
	e.mu.Lock()
	if evt.ID == "CF_TERMINATE_SYSTEM" {
		dispatchLogger := log.WithDispatch(e.dispatchCount)
		dispatchLogger.Info().Msg("system terminate requested, disabling all chains")
		e.disableAllChainsLocked()
		e.systemActive = false
		e.mu.Unlock()
		return nil
	}
	if evt.ID == "CF_RESET_SYSTEM" {
		resetLogger := log.WithDispatch(e.dispatchCount)
		resetLogger.Warn().Msg("system reset requested")
		e.disableAllChainsLocked()
		if err := e.initializeChainsLocked(); err != nil {
			e.mu.Unlock()
			return err
		}
	}

	e.systemActive = false
	chains := append([]string(nil), e.listOfChains...)
	e.mu.Unlock()

	for _, name := range chains {
		e.mu.Lock()
		active := e.chainDict[name].Active
		e.mu.Unlock()
		if !active {
			continue
		}
		if err := e.executeChainEvent(name, evt); err != nil {
			return err
		}
	}
	return nil
}

// executeChainEvent drains chain's per-chain backlog, delivers evt, then
// drains any per-chain events produced during those two phases, in that
// three-phase order.
func (e *Engine) executeChainEvent(chain string, evt cfevents.Event) error {
	e.mu.Lock()
	active := e.chainDict[chain].Active
	e.mu.Unlock()
	if !active {
		return nil
	}

	if err := e.drainChainBacklog(chain); err != nil {
		return err
	}
	if err := e.executeChainElement(chain, evt); err != nil {
		return err
	}
	if err := e.drainChainBacklog(chain); err != nil {
		return err
	}
	return nil
}

func (e *Engine) drainChainBacklog(chain string) error {
	for {
		e.mu.Lock()
		has, err := e.queues.HasChainEvents(chain)
		if err != nil {
			e.mu.Unlock()
			return err
		}
		if !has {
			e.mu.Unlock()
			return nil
		}
		evt, _, err := e.queues.NextChainEvent(chain)
		e.mu.Unlock()
		if err != nil {
			return err
		}
		if err := e.executeChainElement(chain, evt); err != nil {
			return err
		}
	}
}

// executeChainElement runs evt through every element of chain in
// definition order, stopping at the first element whose return code
// halts iteration.
func (e *Engine) executeChainElement(chain string, evt cfevents.Event) error {
	e.mu.Lock()
	elements := append([]*Element(nil), e.chainDict[chain].Elements...)
	e.mu.Unlock()

	for _, el := range elements {
		e.mu.Lock()
		el.CurrentChain = chain
		if !el.Enable {
			e.mu.Unlock()
			continue
		}
		if !el.Initialized {
			el.Initialized = true
			if el.InitFn != nil {
				init := el.InitFn
				e.mu.Unlock()
				init(el)
				e.mu.Lock()
			}
		}
		e.systemActive = true
		process := el.ProcessFn
		name := el.Name
		hook := e.onElementRun
		e.mu.Unlock()

		start := time.Now()
		rc := process(el, evt)
		if hook != nil {
			hook(chain, name, evt, rc, time.Since(start))
		}

		cont, err := e.analyzeReturnCode(chain, el, rc)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return nil
}

// analyzeReturnCode applies the return-code state machine and reports
// whether iteration over the chain's remaining elements should continue
// for this event.
func (e *Engine) analyzeReturnCode(chain string, el *Element, rc ReturnCode) (bool, error) {
	if !rc.valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidReturnCode, rc)
	}
	switch rc {
	case CFHalt:
		return false, nil
	case CFContinue:
		return true, nil
	case CFDisable:
		e.mu.Lock()
		term := el.TermFn
		wasInitialized := el.Initialized
		el.Enable = false
		el.Initialized = false
		e.mu.Unlock()
		if wasInitialized && term != nil {
			term(el)
		}
		return true, nil
	case CFReset:
		e.mu.Lock()
		err := e.disableChainLocked(chain)
		if err == nil {
			err = e.enableChainLocked(chain)
		}
		e.mu.Unlock()
		return false, err
	case CFTerminate:
		e.mu.Lock()
		err := e.disableChainLocked(chain)
		e.mu.Unlock()
		return false, err
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidReturnCode, rc)
}
