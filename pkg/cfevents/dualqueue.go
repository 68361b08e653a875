package cfevents

import "fmt"

// DualQueueSystem owns the single system/broadcast queue plus one targeted
// queue per chain. The set of chain names is fixed at construction time;
// sending to a name outside that set is a configuration error.
type DualQueueSystem struct {
	chains   []string
	system   *Queue
	perChain map[string]*Queue
}

// NewDualQueueSystem builds a DualQueueSystem for the given chain names.
// normalMax/callbackMax configure capacities for the system queue and each
// per-chain queue respectively; <= 0 means unbounded.
func NewDualQueueSystem(chainNames []string, normalMax, callbackMax int) (*DualQueueSystem, error) {
	if len(chainNames) == 0 {
		return nil, fmt.Errorf("cfevents: chain name list cannot be empty")
	}
	d := &DualQueueSystem{
		chains:   append([]string(nil), chainNames...),
		system:   NewQueue("normal_events", normalMax),
		perChain: make(map[string]*Queue, len(chainNames)),
	}
	for _, name := range chainNames {
		d.perChain[name] = NewQueue(name, callbackMax)
	}
	return d, nil
}

func (d *DualQueueSystem) queueFor(chain string) (*Queue, error) {
	q, ok := d.perChain[chain]
	if !ok {
		return nil, fmt.Errorf("cfevents: chain %q does not exist", chain)
	}
	return q, nil
}

// AddSystemEvent enqueues evt on the system/broadcast queue.
func (d *DualQueueSystem) AddSystemEvent(evt Event) bool {
	return d.system.Enqueue(evt)
}

// AddChainEvent enqueues evt on chain's targeted queue.
func (d *DualQueueSystem) AddChainEvent(chain string, evt Event) (bool, error) {
	q, err := d.queueFor(chain)
	if err != nil {
		return false, err
	}
	return q.Enqueue(evt), nil
}

// NextSystemEvent dequeues the head of the system queue.
func (d *DualQueueSystem) NextSystemEvent() (Event, bool) {
	return d.system.Dequeue()
}

// NextChainEvent dequeues the head of chain's targeted queue.
func (d *DualQueueSystem) NextChainEvent(chain string) (Event, bool, error) {
	q, err := d.queueFor(chain)
	if err != nil {
		return Event{}, false, err
	}
	evt, ok := q.Dequeue()
	return evt, ok, nil
}

// HasSystemEvents reports whether the system queue is non-empty.
func (d *DualQueueSystem) HasSystemEvents() bool {
	return !d.system.IsEmpty()
}

// HasChainEvents reports whether chain's targeted queue is non-empty.
func (d *DualQueueSystem) HasChainEvents(chain string) (bool, error) {
	q, err := d.queueFor(chain)
	if err != nil {
		return false, err
	}
	return !q.IsEmpty(), nil
}

// ClearSystemEvents flushes the system queue, returning the discarded count.
func (d *DualQueueSystem) ClearSystemEvents() int {
	return d.system.Clear()
}

// ClearChainEvents flushes chain's targeted queue, returning the discarded
// count.
func (d *DualQueueSystem) ClearChainEvents(chain string) (int, error) {
	q, err := d.queueFor(chain)
	if err != nil {
		return 0, err
	}
	return q.Clear(), nil
}

// ClearReport summarizes a ClearAll pass: how many events were discarded
// from the system queue, from each chain's queue, and in total.
type ClearReport struct {
	SystemCleared int
	ChainCleared  map[string]int
	TotalCleared  int
}

// ClearAll flushes the system queue and every chain's targeted queue.
func (d *DualQueueSystem) ClearAll() ClearReport {
	report := ClearReport{ChainCleared: make(map[string]int, len(d.chains))}
	report.SystemCleared = d.system.Clear()
	report.TotalCleared += report.SystemCleared
	for _, name := range d.chains {
		n := d.perChain[name].Clear()
		report.ChainCleared[name] = n
		report.TotalCleared += n
	}
	return report
}

// SystemQueueStats returns point-in-time statistics for the system queue.
func (d *DualQueueSystem) SystemQueueStats() Stats {
	return d.system.Stats()
}

// ChainQueueStats returns point-in-time statistics for a chain's targeted
// queue.
func (d *DualQueueSystem) ChainQueueStats(chain string) (Stats, error) {
	q, err := d.queueFor(chain)
	if err != nil {
		return Stats{}, err
	}
	return q.Stats(), nil
}
