// Package serialization converts events to and from a flat wire form. The
// kind tag embedded in the wire form is what lets a decoder rebuild the
// concrete event type from a stream of bytes.
package serialization

// Serializable is an event kind that can convert its payload to and from a
// flat map. Kinds that do not implement Serializable can still be published
// and shared; they just cannot cross a process boundary.
type Serializable interface {
	Serialize() (map[string]any, error)
	Deserialize(map[string]any) error
}
