package graph

import (
	"strconv"
)

// Kind tags the representation held by a Value.
type Kind uint8

const (
	// KindText is an uninterpreted text value.
	KindText Kind = iota
	// KindInt is a base-10 integer value.
	KindInt
)

// Value is a scalar field value: an integer when the source text parsed as
// one, the original text otherwise.
type Value struct {
	kind Kind
	i    int
	s    string
}

// IntValue wraps an integer.
func IntValue(n int) Value { return Value{kind: KindInt, i: n} }

// TextValue wraps a string.
func TextValue(s string) Value { return Value{kind: KindText, s: s} }

func (v Value) Kind() Kind { return v.kind }

// Int returns the integer held by v, if any.
func (v Value) Int() (int, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// String renders v as text. Integers are formatted in base 10.
func (v Value) String() string {
	if v.kind == KindInt {
		return strconv.Itoa(v.i)
	}
	return v.s
}

// Any returns v as a plain Go value (int or string), for JSON-shaped output.
func (v Value) Any() any {
	if v.kind == KindInt {
		return v.i
	}
	return v.s
}

// Sentinels the exporter writes for "not applicable", e.g. an unknown death year
// or missing coordinates.
const (
	absentScalar = "-1"
	absentPair   = "-1,-1"
)

// Coerce converts the raw text of a field into a Value. It reports false when
// the text is an absent sentinel, in which case the field must not be stored.
// The field name is accepted so callers can pass it uniformly; coercion is the
// same for every field.
func Coerce(field, raw string) (Value, bool) {
	if raw == absentScalar || raw == absentPair {
		return Value{}, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return IntValue(n), true
	}
	return TextValue(raw), true
}

// Optional is a typed slot that may be empty.
type Optional[T any] struct {
	v  T
	ok bool
}

// Some returns a populated Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{v: v, ok: true} }

// None returns an empty Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// Get returns the held value and whether one is present.
func (o Optional[T]) Get() (T, bool) { return o.v, o.ok }

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool { return o.ok }

// OrElse returns the held value or def when empty.
func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.v
	}
	return def
}
