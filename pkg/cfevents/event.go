// Package cfevents implements the dual-queue event system that the engine
// dispatches: a single broadcast queue plus one targeted queue per chain.
package cfevents

import "fmt"

// Event is an immutable tagged message: an identifier plus an opaque
// payload. Equal compares the identifier and the stringified payload.
// Event has no hashing method of its own; using it as a map key relies on
// Go's built-in ==, which needs a comparable payload.
type Event struct {
	ID   string
	Data any
}

// New constructs an Event. It performs no validation: Registry.Add
// rejects an empty id, and the engine rejects ids that are not registered
// at send time.
func New(id string, data any) Event {
	return Event{ID: id, Data: data}
}

// Equal reports whether two events carry the same identifier and an
// identical stringified payload.
func (e Event) Equal(other Event) bool {
	return e.ID == other.ID && fmt.Sprint(e.Data) == fmt.Sprint(other.Data)
}

func (e Event) String() string {
	return fmt.Sprintf("Event(id=%q, data=%v)", e.ID, e.Data)
}

// Registry tracks the set of identifiers the engine will accept for
// system and targeted sends, each with a human description. Registration
// is append-only and duplicate-checked.
type Registry struct {
	descriptions map[string]string
}

// NewRegistry builds a Registry pre-populated with the built-in event ids
// every Chain Flow Engine dispatch loop depends on (timer, calendar
// rollovers, and the system control events).
func NewRegistry() *Registry {
	r := &Registry{descriptions: make(map[string]string)}
	for id, desc := range builtinEvents {
		r.descriptions[id] = desc
	}
	return r
}

var builtinEvents = map[string]string{
	"CF_TIMER_EVENT":      "Timer Event",
	"CF_SECOND_EVENT":     "NewSecond Event",
	"CF_MINUTE_EVENT":     "New Minute Event",
	"CF_HOUR_EVENT":       "New Hour Event",
	"CF_DAY_EVENT":        "New Day Event",
	"CF_SYSTEM_RESET":     "System Reset Event",
	"CF_SYSTEM_STOP":      "System Stop Event",
	"CF_HALT":             "Halt Event",
	"CF_CONTINUE":         "Continue Event",
	"CF_DISABLE":          "Disable Event",
	"CF_RESET":            "Reset Event",
	"CF_TERMINATE":        "Terminate Event",
	"CF_TERMINATE_SYSTEM": "Terminate System Event",
	"CF_RESET_SYSTEM":     "Reset System Event",
}

// Add registers a new event id with its description. It is an error to
// register an id that already exists.
func (r *Registry) Add(id, description string) error {
	if id == "" {
		return fmt.Errorf("cfevents: event id cannot be empty")
	}
	if _, exists := r.descriptions[id]; exists {
		return fmt.Errorf("cfevents: event id %q already exists", id)
	}
	r.descriptions[id] = description
	return nil
}

// Has reports whether id has been registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.descriptions[id]
	return ok
}

// Describe returns the registered description for id.
func (r *Registry) Describe(id string) (string, error) {
	desc, ok := r.descriptions[id]
	if !ok {
		return "", fmt.Errorf("cfevents: event id %q does not exist", id)
	}
	return desc, nil
}
