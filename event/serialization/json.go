package serialization

import (
	"encoding/json"
	"io"
)

// A Codec encodes and decodes the flat wire form of an event.
type Codec interface {
	Encode(w io.Writer, v map[string]any) error
	Decode(r io.Reader) (map[string]any, error)
}

type JSONCodec struct {
}

func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

func (c JSONCodec) Encode(w io.Writer, v map[string]any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	return encoder.Encode(v)
}

func (c JSONCodec) Decode(r io.Reader) (map[string]any, error) {
	decoder := json.NewDecoder(r)

	v := map[string]any{}

	err := decoder.Decode(&v)
	if err != nil {
		return nil, err
	}

	return v, nil
}
