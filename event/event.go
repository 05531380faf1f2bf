// Package event defines the polymorphic payload abstraction that all
// simulation components exchange. The package owns the event contract, the
// kind registry used to discriminate concrete kinds, and the shared-ownership
// handles that carry events from one producer to many consumers.
package event

// A Kind is a stable identifier of a concrete event kind. Two instances of
// the same concrete kind always report the same Kind; two different kinds
// never share one.
type Kind string

// An Event is something that happened in the simulated world. The interface
// carries no payload fields. Concrete kinds embed EventBase, add their own
// fields, and implement Kind themselves, typically returning a package-level
// constant.
//
// The simulation engine, ports, and models hold events through this
// interface and must not assume any concrete layout. A holder that needs the
// payload recovers the concrete kind with As.
type Event interface {
	// Kind returns the identifier of the concrete event kind.
	Kind() Kind
}

// A Releaser is an event kind that owns resources beyond its own memory,
// such as pooled buffers or open handles. Release is called exactly once,
// when the last shared holder of the event drops its reference.
type Releaser interface {
	Release()
}

// Identified is implemented by event kinds that carry an ID. Every kind that
// embeds EventBase is Identified.
type Identified interface {
	EventID() string
}

// EventBase provides the basic fields for concrete event kinds. It
// intentionally does not implement Kind, so an EventBase on its own never
// satisfies Event. Every concrete kind must supply its own tag.
type EventBase struct {
	ID string
}

// NewEventBase creates an EventBase with a fresh ID from the configured ID
// generator.
func NewEventBase() EventBase {
	return EventBase{ID: GetIDGenerator().Generate()}
}

// EventID returns the ID assigned to the event at creation time.
func (b EventBase) EventID() string {
	return b.ID
}

// SetEventID overwrites the event ID. Decoders use it to give an event
// rebuilt from its wire form the identity it was created with.
func (b *EventBase) SetEventID(id string) {
	b.ID = id
}
