package util

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iancoleman/orderedmap"
)

// Select is a generic ternary helper: Select(cond, a, b) returns a if cond
// is true, else b.
func Select[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

// OrderedMap wraps iancoleman/orderedmap so JSON objects whose key order is
// semantically meaningful (e.g. a declared waypoint-fix library) round-trip
// in declaration order instead of the random order Go's map iteration would
// produce.
type OrderedMap struct {
	m *orderedmap.OrderedMap
}

func NewOrderedMap() OrderedMap {
	return OrderedMap{m: orderedmap.New()}
}

func (o *OrderedMap) Set(key string, value interface{}) {
	if o.m == nil {
		o.m = orderedmap.New()
	}
	o.m.Set(key, value)
}

func (o OrderedMap) Get(key string) (interface{}, bool) {
	if o.m == nil {
		return nil, false
	}
	return o.m.Get(key)
}

func (o OrderedMap) Keys() []string {
	if o.m == nil {
		return nil
	}
	return o.m.Keys()
}

func (o OrderedMap) MarshalJSON() ([]byte, error) {
	if o.m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(o.m)
}

func (o *OrderedMap) UnmarshalJSON(b []byte) error {
	o.m = orderedmap.New()
	return json.Unmarshal(b, o.m)
}

// CheckJSON implements JSONChecker: any JSON object is acceptable for an
// OrderedMap field (values within it are not further structurally typed).
func (o OrderedMap) CheckJSON(doc interface{}) bool {
	_, ok := doc.(map[string]interface{})
	return ok
}

// OneOf decodes JSON into exactly one of A or B, used for configuration
// fields that accept either a scalar form or a tabular form but reject a
// document providing both (spec.md §6.3: "mixing scalar and tabular forms
// in the same PID is an error").
type OneOf[A any, B any] struct {
	A    *A
	B    *B
	HasA bool
	HasB bool
}

func (o *OneOf[A, B]) UnmarshalJSON(b []byte) error {
	decodeStrict := func(v interface{}) error {
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	}

	var a A
	errA := decodeStrict(&a)
	var bb B
	errB := decodeStrict(&bb)

	switch {
	case errA == nil && errB == nil:
		// Both decode under strict field matching; this only happens when
		// A and B share every field name, which the PID scalar/tabular
		// pair never does. Treated as an error rather than silently
		// guessed at.
		return fmt.Errorf("ambiguous value decodes as both forms")
	case errA == nil:
		o.A, o.HasA = &a, true
		return nil
	case errB == nil:
		o.B, o.HasB = &bb, true
		return nil
	default:
		return fmt.Errorf("value matches neither expected form: %v / %v", errA, errB)
	}
}

// CheckJSON is called against a zero-valued OneOf during structural
// validation (the generic type-checker constructs one via reflect.New), so
// it cannot rely on HasA/HasB being populated; instead it checks doc
// directly against both candidate shapes and requires exactly one to match.
func (o OneOf[A, B]) CheckJSON(doc interface{}) bool {
	return TypeCheckJSON[A](doc) != TypeCheckJSON[B](doc)
}
