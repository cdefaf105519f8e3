package server

import (
	"encoding/json"
)

// jsonCodec replaces connect's protojson codec so plain structs can travel
// over the Connect protocol with application/json.
type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
