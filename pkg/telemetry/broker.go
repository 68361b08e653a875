package telemetry

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the shape of a telemetry Record.
type Kind string

const (
	KindElementRun Kind = "element_run"
	KindDispatch   Kind = "dispatch"
	KindDropped    Kind = "dropped"
)

// Record is a single observable moment in the engine's dispatch loop,
// published by whatever wired the engine's hooks to this broker.
type Record struct {
	Kind       Kind          `json:"kind"`
	Timestamp  time.Time     `json:"timestamp"`
	Chain      string        `json:"chain,omitempty"`
	Element    string        `json:"element,omitempty"`
	EventID    string        `json:"event_id,omitempty"`
	ReturnCode string        `json:"return_code,omitempty"`
	Duration   time.Duration `json:"duration_ns,omitempty"`
	Queue      string        `json:"queue,omitempty"`
}

// Subscriber is a channel that receives telemetry records.
type Subscriber chan *Record

// Broker manages telemetry subscriptions and distribution. Subscribers
// are identified by a generated uuid so callers (e.g. the websocket
// bridge) can log and correlate connections without holding the channel
// itself as a map key in their own bookkeeping.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]Subscriber
	recordCh    chan *Record
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewBroker creates a new telemetry broker. Call Start before Publish.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[uuid.UUID]Subscriber),
		recordCh:    make(chan *Record, 256),
		stopCh:      make(chan struct{}),
	}
}

// Start begins the broker's distribution loop.
func (b *Broker) Start() {
	go b.run()
}

// Stop stops the broker and closes every subscriber channel.
func (b *Broker) Stop() {
	b.stopOnce.Do(func() { close(b.stopCh) })
}

// Subscribe creates a new subscription, returning its id and channel.
func (b *Broker) Subscribe() (uuid.UUID, Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New()
	sub := make(Subscriber, 64)
	b.subscribers[id] = sub
	return id, sub
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broker) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(sub)
	}
}

// Publish hands a record to the broker's distribution loop. It never
// blocks the caller beyond the buffered channel send; once the broker is
// stopped, published records are dropped.
func (b *Broker) Publish(rec *Record) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	select {
	case b.recordCh <- rec:
	case <-b.stopCh:
	}
}

func (b *Broker) run() {
	for {
		select {
		case rec := <-b.recordCh:
			b.broadcast(rec)
		case <-b.stopCh:
			b.closeAll()
			return
		}
	}
}

func (b *Broker) broadcast(rec *Record) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		select {
		case sub <- rec:
		default:
			// subscriber buffer full, drop rather than block the broker
		}
	}
}

func (b *Broker) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subscribers {
		delete(b.subscribers, id)
		close(sub)
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
