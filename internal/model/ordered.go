package model

import "iter"

// Ordered is a read-only, insertion-ordered map. Setting a key twice keeps the
// first position and the last value.
//
// A nil *Ordered behaves as an empty collection.
type Ordered[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func newOrdered[K comparable, V any](capacity int) *Ordered[K, V] {
	return &Ordered[K, V]{
		keys:   make([]K, 0, capacity),
		values: make(map[K]V, capacity),
	}
}

func (o *Ordered[K, V]) set(key K, value V) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}

	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Ordered[K, V]) Get(key K) (V, bool) {
	if o == nil {
		var zero V
		return zero, false
	}

	v, ok := o.values[key]

	return v, ok
}

// Len returns the number of distinct keys.
func (o *Ordered[K, V]) Len() int {
	if o == nil {
		return 0
	}

	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Ordered[K, V]) Keys() []K {
	if o == nil {
		return nil
	}

	return append([]K(nil), o.keys...)
}

// Values returns the values in key order.
func (o *Ordered[K, V]) Values() []V {
	if o == nil {
		return nil
	}

	out := make([]V, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.values[k])
	}

	return out
}

// All iterates over key/value pairs in insertion order.
func (o *Ordered[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if o == nil {
			return
		}

		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}
