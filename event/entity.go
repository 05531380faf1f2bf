package event

import "fmt"

// An Entity is any named element of a simulation: a model, a port, a
// coupling, an event producer. The name identifies the entity in logs and
// traces; String gives a human-readable description for debugging.
type Entity interface {
	// Name returns the name of the entity.
	Name() string

	fmt.Stringer
}

// EntityBase is a base implementation of Entity.
type EntityBase struct {
	name string
}

// MakeEntityBase creates a new EntityBase
func MakeEntityBase(name string) EntityBase {
	return EntityBase{name: name}
}

func (b EntityBase) Name() string {
	return b.name
}

func (b EntityBase) String() string {
	return b.name
}
