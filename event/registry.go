package event

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

type kindRegistry struct {
	lock sync.RWMutex

	kinds map[Kind]reflect.Type
}

func (r *kindRegistry) register(example Event) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	kind := example.Kind()
	if kind == "" {
		return fmt.Errorf("event kind must not be empty")
	}

	// Allow the example to be a pointer or a struct.
	t := reflect.TypeOf(example)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if existing, ok := r.kinds[kind]; ok {
		return fmt.Errorf("event kind %s already registered by %s",
			kind, existing.String())
	}

	r.kinds[kind] = t

	return nil
}

func (r *kindRegistry) newOfKind(kind Kind) (Event, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	t, ok := r.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("event kind %s not registered", kind)
	}

	instance := reflect.New(t).Interface()

	evt, ok := instance.(Event)
	if !ok {
		return nil, fmt.Errorf("event kind %s is not an Event", kind)
	}

	return evt, nil
}

func (r *kindRegistry) registered(kind Kind) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()

	_, ok := r.kinds[kind]
	return ok
}

func (r *kindRegistry) allKinds() []Kind {
	r.lock.RLock()
	defer r.lock.RUnlock()

	kinds := make([]Kind, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}

var registry = kindRegistry{
	kinds: map[Kind]reflect.Type{},
}

// Register records a concrete event kind in the process-wide registry, using
// an example value of that kind. Registering the same kind twice is an
// error.
func Register(example Event) error {
	return registry.register(example)
}

// MustRegister registers a concrete event kind and panics on failure. It is
// meant to be called from init functions of the packages that define event
// kinds.
func MustRegister(example Event) {
	if err := Register(example); err != nil {
		panic(err)
	}
}

// NewOfKind creates a zero-valued instance of a registered kind. Decoders
// use it to rebuild an event from its wire form before filling the payload.
func NewOfKind(kind Kind) (Event, error) {
	return registry.newOfKind(kind)
}

// Registered tells if a kind is known to the registry.
func Registered(kind Kind) bool {
	return registry.registered(kind)
}

// Kinds returns all registered kinds in lexicographic order.
func Kinds() []Kind {
	return registry.allKinds()
}
