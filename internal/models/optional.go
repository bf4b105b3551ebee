package models

import "encoding/json"

// Optional is a patch field with three states: absent (left out of the
// request, so the backend keeps its value), null (sent as null to clear it)
// and set. Fields of this type use the omitzero tag so that only the absent
// state is dropped.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a set Optional. For slices, pass an empty non-nil slice to
// send [].
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns an Optional that encodes as JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Null: true}
}

// IsZero reports the absent state. encoding/json consults it for omitzero.
func (o Optional[T]) IsZero() bool {
	return !o.Set && !o.Null
}

// Get returns the value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
