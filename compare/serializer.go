package compare

import "encoding/json"

// Serializer converts application values into their canonical wire
// form. Both sides of a comparison pass through the same serializer so
// that representation details (field tags, embedded types, custom
// marshalers) never produce false mismatches.
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
}

// JSONSerializer is the default Serializer, using encoding/json.
type JSONSerializer struct{}

func (JSONSerializer) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
