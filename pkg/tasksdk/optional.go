package tasksdk

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that can be absent, null or hold a value. Tag
// fields with omitzero so unset ones are not sent.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: v} }
func Null[T any]() Optional[T]    { return Optional[T]{Set: true, Null: true} }

// Ptr returns a pointer to v. Handy for query parameters.
func Ptr[T any](v T) *T { return &v }

// IsZero reports whether the field was absent.
func (o Optional[T]) IsZero() bool { return !o.Set }

// Present reports whether the field holds a value, neither absent nor null.
func (o Optional[T]) Present() bool { return o.Set && !o.Null }

// Get returns the value, or nil when the field is absent or null.
func (o Optional[T]) Get() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// UnmarshalJSON only runs when the key is present in the document.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
