package valueobjects

import (
	"bytes"
	"encoding/json"
	"errors"
)

// EmptyGraphDocument is the stored form of a canvas with no nodes or edges.
var EmptyGraphDocument = GraphDocument(`[]`)

var ErrNotJSONArray = errors.New("must be a JSON array")

// GraphDocument holds a serialized node or edge list exactly as the client
// sent it. The server stores and returns the bytes without interpreting them.
type GraphDocument json.RawMessage

// NewGraphDocument checks that raw is a JSON array and copies it.
func NewGraphDocument(raw []byte) (GraphDocument, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' || !json.Valid(trimmed) {
		return nil, ErrNotJSONArray
	}
	doc := make(GraphDocument, len(raw))
	copy(doc, raw)
	return doc, nil
}

// MarshalJSON emits the stored bytes untouched
func (d GraphDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte(EmptyGraphDocument), nil
	}
	return []byte(d), nil
}

// UnmarshalJSON keeps a private copy of data
func (d *GraphDocument) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}

// Bytes returns the raw document, defaulting to an empty array
func (d GraphDocument) Bytes() []byte {
	if len(d) == 0 {
		return []byte(EmptyGraphDocument)
	}
	return []byte(d)
}

// Equal reports byte equality
func (d GraphDocument) Equal(other GraphDocument) bool {
	return bytes.Equal(d.Bytes(), other.Bytes())
}
