package event

import (
	"fmt"
	"reflect"
)

// A CastError reports an attempt to use an event as a concrete kind it is
// not.
type CastError struct {
	Have Kind
	Want reflect.Type
}

func (e *CastError) Error() string {
	return fmt.Sprintf("event of kind %s is not a %s", e.Have, e.Want)
}

// As recovers the concrete kind of an event held through the Event
// interface. It never panics: holding the wrong kind surfaces as a
// *CastError.
func As[T Event](e Event) (T, error) {
	concrete, ok := e.(T)
	if !ok {
		var zero T
		castErr := &CastError{
			Want: reflect.TypeOf((*T)(nil)).Elem(),
		}
		if e != nil {
			castErr.Have = e.Kind()
		}

		return zero, castErr
	}

	return concrete, nil
}
