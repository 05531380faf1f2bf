package serialization

import (
	"fmt"
	"io"
	"sync"

	"github.com/devskit/eventcore/event"
)

const (
	kindField = "kind"
	idField   = "id"
)

// Manager serializes and deserializes events through a codec. The encoded
// form is a flat map that carries the kind tag and the event ID next to the
// payload fields; the kind tag drives the lookup in the kind registry on the
// way back.
type Manager struct {
	codec Codec
	lock  sync.Mutex
}

// NewManager creates a Manager that uses the given codec for the byte-level
// encoding.
func NewManager(codec Codec) *Manager {
	return &Manager{
		codec: codec,
	}
}

// Serialize writes one event to the writer. The event kind must implement
// Serializable.
func (m *Manager) Serialize(w io.Writer, evt event.Event) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	mapped, err := m.serializeToMap(evt)
	if err != nil {
		return err
	}

	return m.codec.Encode(w, mapped)
}

// Deserialize reads one event from the reader, minting a fresh instance of
// the kind named on the wire. The kind must be registered.
func (m *Manager) Deserialize(r io.Reader) (event.Event, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	mapped, err := m.codec.Decode(r)
	if err != nil {
		return nil, err
	}

	return m.deserializeFromMap(mapped)
}

func (m *Manager) serializeToMap(evt event.Event) (map[string]any, error) {
	serializable, ok := evt.(Serializable)
	if !ok {
		return nil, fmt.Errorf(
			"event kind %s is not a Serializable", evt.Kind())
	}

	payload, err := serializable.Serialize()
	if err != nil {
		return nil, err
	}

	mapped := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		if k == kindField || k == idField {
			return nil, fmt.Errorf(
				"event kind %s uses the reserved payload field %q",
				evt.Kind(), k)
		}

		mapped[k] = v
	}

	mapped[kindField] = string(evt.Kind())

	if identified, ok := evt.(event.Identified); ok {
		mapped[idField] = identified.EventID()
	}

	return mapped, nil
}

func (m *Manager) deserializeFromMap(
	mapped map[string]any,
) (event.Event, error) {
	rawKind, ok := mapped[kindField].(string)
	if !ok {
		return nil, fmt.Errorf("wire form carries no kind tag")
	}

	evt, err := event.NewOfKind(event.Kind(rawKind))
	if err != nil {
		return nil, err
	}

	serializable, ok := evt.(Serializable)
	if !ok {
		return nil, fmt.Errorf(
			"event kind %s is not a Serializable", rawKind)
	}

	payload := make(map[string]any, len(mapped))
	for k, v := range mapped {
		if k == kindField || k == idField {
			continue
		}

		payload[k] = v
	}

	if err := serializable.Deserialize(payload); err != nil {
		return nil, err
	}

	restoreID(evt, mapped)

	return evt, nil
}

// restoreID puts the ID carried on the wire back onto the minted event, so
// that encode followed by decode preserves event identity.
func restoreID(evt event.Event, mapped map[string]any) {
	rawID, ok := mapped[idField].(string)
	if !ok {
		return
	}

	settable, ok := evt.(interface{ SetEventID(string) })
	if !ok {
		return
	}

	settable.SetEventID(rawID)
}
