package common

import (
	"bytes"
	"encoding/json"
	"errors"
)

var (
	ErrNotObject = errors.New("not a JSON object")
)

// Object is a JSON object with its members left undecoded.
type Object map[string]json.RawMessage

// ParseObject splits a JSON object into its raw members.
func ParseObject(data []byte) (Object, error) {
	var obj Object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrNotObject
	}
	return obj, nil
}

// Take removes name from the object and returns its raw value.
func (o Object) Take(name string) (json.RawMessage, bool) {
	raw, ok := o[name]
	if ok {
		delete(o, name)
	}
	return raw, ok
}

// Clone returns a deep copy, nil for an empty object.
func (o Object) Clone() Object {
	if len(o) == 0 {
		return nil
	}
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// IsNull reports whether raw is the JSON literal null.
func IsNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// MergeObject marshals known and adds every member of extra whose name is not
// already set by known.
func MergeObject(known any, extra Object) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return data, nil
	}
	obj, err := ParseObject(data)
	if err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := obj[k]; ok {
			continue
		}
		obj[k] = v
	}
	return json.Marshal(obj)
}
