// Package optional models patch fields that distinguish "not supplied"
// from "cleared" from "set to a value".
package optional

import (
	"bytes"
	"encoding/json"
)

// Value is Unset, Null or Set(v). The zero value is Unset, so a struct of
// Values decoded from JSON only marks the keys the client actually sent.
type Value[T any] struct {
	v    T
	set  bool
	null bool
}

func Some[T any](v T) Value[T] {
	return Value[T]{v: v, set: true}
}

func Null[T any]() Value[T] {
	return Value[T]{set: true, null: true}
}

// IsSet reports whether the field was supplied, including as null.
func (o Value[T]) IsSet() bool { return o.set }

func (o Value[T]) IsNull() bool { return o.set && o.null }

// Get returns the value and true only for Set(v).
func (o Value[T]) Get() (T, bool) {
	if !o.set || o.null {
		var zero T
		return zero, false
	}
	return o.v, true
}

// OrZero returns the value, or the zero value for Unset and Null.
func (o Value[T]) OrZero() T {
	v, _ := o.Get()
	return v
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.null = true
		var zero T
		o.v = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.v)
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}
